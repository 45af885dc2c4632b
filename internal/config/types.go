package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName   string        `envconfig:"DB_NAME" default:"reservations.db"`
	Port     string        `envconfig:"PORT" default:"8080"`
	Timezone string        `envconfig:"TIMEZONE" default:"Europe/Madrid"`
	JWT      JWTConfig     `envconfig:"JWT"`
	Turso    TursoConfig   `envconfig:"TURSO"`
	Slack    SlackConfig   `envconfig:"SLACK"`
	PubSub   PubSubConfig  `envconfig:"PUBSUB"`
	Payment  PaymentConfig `ignored:"true"`
	Slots    SlotsConfig   `envconfig:"SLOTS"`
	Admin    AdminConfig   `envconfig:"ADMIN"`
	// UploadDir is where payment proofs are written.
	UploadDir string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	// ProjectID is the GCP project for booking events. Empty means in-process delivery.
	ProjectID string `envconfig:"GCP_PROJECT"`
}

type JWTConfig struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	TTL    time.Duration `envconfig:"TTL" default:"24h"`
}

type TursoConfig struct {
	PrimaryURL string `envconfig:"PRIMARY_URL"`
	AuthToken  string `envconfig:"AUTH_TOKEN"`
}

type SlackConfig struct {
	Token     string `envconfig:"BOT_TOKEN"`
	ChannelID string `envconfig:"CHANNEL_ID"`
}

type PubSubConfig struct {
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"reservations-"`
}

// PaymentConfig carries the manual payment details shown to users. Loaded
// from BANK_ACCOUNT, BIZUM_NUMBER and CONTACT_PHONE.
type PaymentConfig struct {
	BankAccount  string `envconfig:"BANK_ACCOUNT" default:"ES00 0000 0000 0000 0000 0000"`
	BizumNumber  string `envconfig:"BIZUM_NUMBER" default:"12345"`
	ContactPhone string `envconfig:"CONTACT_PHONE" default:"961393959"`
}

// AdminConfig is the administrator account created at startup and by the
// seeder. An empty password skips creation.
type AdminConfig struct {
	Name     string `envconfig:"NAME" default:"Administrator"`
	Email    string `envconfig:"EMAIL" default:"admin@reservas.local"`
	DNI      string `envconfig:"DNI" default:"00000000T"`
	Password string `envconfig:"PASSWORD"`
}

// SlotsConfig overrides the slot grid. Empty lists fall back to the default catalog.
type SlotsConfig struct {
	Weekday []string `envconfig:"WEEKDAY"`
	Weekend []string `envconfig:"WEEKEND"`
}

// PublicConfig is the subset of configuration that clients may see.
type PublicConfig struct {
	BankAccount  string `json:"bankAccount"`
	BizumNumber  string `json:"bizumNumber"`
	ContactPhone string `json:"contactPhone"`
}
