package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mauv0809/court-reservations/internal/booking"
	"github.com/mauv0809/court-reservations/internal/config"
	"github.com/mauv0809/court-reservations/internal/court"
	"github.com/mauv0809/court-reservations/internal/database"
	"github.com/mauv0809/court-reservations/internal/pricing"
	"github.com/mauv0809/court-reservations/internal/slots"
	"github.com/mauv0809/court-reservations/internal/user"
	"github.com/spf13/cobra"
)

// seederConfig is the subset of the server configuration the seeder needs.
// It does not require JWT_SECRET.
type seederConfig struct {
	DBName string             `envconfig:"DB_NAME" default:"reservations.db"`
	Turso  config.TursoConfig `envconfig:"TURSO"`
	Admin  config.AdminConfig `envconfig:"ADMIN"`
}

var demoWeeks int

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Apply migrations and seed the spaces and the administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().IntVar(&demoWeeks, "demo-weeks", 0, "Also insert approved demo bookings for this many past weeks")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Seeder failed: %s", err)
	}
}

func run(ctx context.Context) error {
	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	var cfg seederConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}
	if cfg.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set")
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return err
	}
	defer teardown()

	courts := court.New(db)
	if err := courts.Seed(ctx, court.DefaultCourts()); err != nil {
		return err
	}
	admin, err := user.New(db).EnsureAdmin(ctx, user.Registration{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		DNI:      cfg.Admin.DNI,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		return err
	}
	log.Info("Administrator ready", "email", admin.Email, "userID", admin.ID)

	if demoWeeks > 0 {
		if err := seedDemoBookings(ctx, booking.New(db), courts, admin.ID, demoWeeks); err != nil {
			return err
		}
	}
	log.Info("Seeding complete")
	return nil
}

// seedDemoBookings books every court for the first weekday slot of each past
// day, approved, so revenue reports have data to show.
func seedDemoBookings(ctx context.Context, store booking.BookingStore, courts court.CourtStore, adminID string, weeks int) error {
	startTime := time.Now()
	list, err := courts.List(ctx)
	if err != nil {
		return err
	}
	resolver := slots.MustResolver(slots.DefaultCatalog())
	today := time.Now().UTC().Truncate(24 * time.Hour)

	inserted, skipped := 0, 0
	for d := 1; d <= weeks*7; d++ {
		day := today.AddDate(0, 0, -d)
		slot := resolver.SlotsFor(day)[0]
		for _, c := range list {
			price := pricing.Compute(c.Pricing(), pricing.TierOrdinary, false)
			b := &booking.Booking{
				CourtID:    c.ID,
				UserID:     adminID,
				Date:       day.Format(booking.DateLayout),
				Slot:       slot,
				TotalPrice: price.Total,
				State:      booking.StateReserved,
				Payment:    &booking.Payment{Amount: price.Total, Status: booking.PaymentApproved},
			}
			audit := booking.AuditEntry{Action: booking.ActionCreate, UserID: adminID, Details: "demo data"}
			err := store.Create(ctx, b, func(existing []string) bool { return resolver.Conflicts(slot, existing) }, audit)
			switch {
			case err == nil:
				inserted++
			case errors.Is(err, booking.ErrSlotTaken):
				skipped++
			default:
				return err
			}
		}
	}
	log.Info("Inserted demo bookings", "inserted", inserted, "skipped", skipped, "duration", time.Since(startTime))
	return nil
}
