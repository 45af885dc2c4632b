package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/auth"
	"github.com/mauv0809/court-reservations/internal/booking"
	"github.com/mauv0809/court-reservations/internal/config"
	"github.com/mauv0809/court-reservations/internal/court"
	"github.com/mauv0809/court-reservations/internal/database"
	server "github.com/mauv0809/court-reservations/internal/http"
	"github.com/mauv0809/court-reservations/internal/metrics"
	"github.com/mauv0809/court-reservations/internal/notifier"
	"github.com/mauv0809/court-reservations/internal/notifier/email"
	"github.com/mauv0809/court-reservations/internal/notifier/slack"
	"github.com/mauv0809/court-reservations/internal/pricing"
	"github.com/mauv0809/court-reservations/internal/processor"
	"github.com/mauv0809/court-reservations/internal/pubsub"
	"github.com/mauv0809/court-reservations/internal/slots"
	"github.com/mauv0809/court-reservations/internal/user"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx := context.Background()
	courtStore := court.New(db)
	if err := courtStore.Seed(ctx, court.DefaultCourts()); err != nil {
		log.Fatalf("Failed to seed courts: %s", err)
	}
	userStore := user.New(db)
	if cfg.Admin.Password != "" {
		if _, err := userStore.EnsureAdmin(ctx, user.Registration{Name: cfg.Admin.Name, Email: cfg.Admin.Email, DNI: cfg.Admin.DNI, Password: cfg.Admin.Password}); err != nil {
			log.Fatalf("Failed to create administrator: %s", err)
		}
	}
	resolver, err := slots.NewResolver(cfg.Catalog())
	if err != nil {
		log.Fatalf("Invalid slot catalog: %s", err)
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	notifiers := notifier.Fanout{email.NewNotifier(cfg.Admin.Email, cfg.Payment.BankAccount, cfg.Payment.BizumNumber, cfg.Payment.ContactPhone)}
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notifiers = append(notifiers, slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc))
	} else {
		log.Warn("Slack is not configured; admin notifications go to the log only")
	}
	proc := processor.New(notifiers, metricsSvc, nil)

	var pubsubClient pubsub.PubSubClient
	if cfg.ProjectID != "" {
		pubsubClient = pubsub.New(cfg.ProjectID, cfg.PubSub.TopicPrefix)
	} else {
		log.Info("No GCP project configured; delivering booking events in process")
		pubsubClient = pubsub.NewLoopback(func(topic pubsub.EventType, data []byte) error {
			return proc.HandleMessage(data, false)
		})
	}
	proc.SetDecoder(pubsubClient)
	defer pubsubClient.Close()

	bookingSvc := booking.NewService(booking.New(db), courtStore, userStore, resolver, pubsubClient, metricsSvc,
		booking.WithLocation(cfg.Location()),
		booking.WithAccountNumber(cfg.Payment.BankAccount),
	)

	s := server.NewServer(server.Deps{
		DB:             db,
		Courts:         courtStore,
		Users:          userStore,
		Bookings:       bookingSvc,
		Calculator:     pricing.NewCalculator(courtStore),
		Resolver:       resolver,
		Auth:           auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Processor:      proc,
	}, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port, "timezone", cfg.Timezone)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
