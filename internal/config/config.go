package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mauv0809/court-reservations/internal/slots"
)

const defaultBizumNumber = "12345"

// Load reads configuration from environment variables and .env file.
// It exits the process when a required variable is missing.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Error: invalid configuration: %s", err)
	}
	return cfg
}

// Parse builds a Config from the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process("", &cfg.Payment); err != nil {
		return Config{}, err
	}
	if cfg.JWT.Secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	if _, err := slots.NewResolver(cfg.Catalog()); err != nil {
		return Config{}, fmt.Errorf("slot catalog: %w", err)
	}
	if cfg.Payment.BizumNumber == defaultBizumNumber {
		log.Warn("BIZUM_NUMBER is using the default value; set it in the environment")
	}
	return cfg, nil
}

// Location returns the time zone used to decide what "today" is.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Catalog returns the configured slot grid, falling back to the default grid
// for any day type left unset.
func (c Config) Catalog() slots.Catalog {
	catalog := slots.DefaultCatalog()
	if weekday := trimEntries(c.Slots.Weekday); len(weekday) > 0 {
		catalog.Weekday = weekday
	}
	if weekend := trimEntries(c.Slots.Weekend); len(weekend) > 0 {
		catalog.Weekend = weekend
	}
	return catalog
}

// trimEntries strips the blanks envconfig leaves around comma-separated values
// and drops empty entries.
func trimEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Public returns the configuration values that may be exposed to clients.
func (c Config) Public() PublicConfig {
	return PublicConfig{
		BankAccount:  c.Payment.BankAccount,
		BizumNumber:  c.Payment.BizumNumber,
		ContactPhone: c.Payment.ContactPhone,
	}
}
