package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relaykit/quoterelay/internal/config"
	"github.com/relaykit/quoterelay/internal/database"
	"github.com/relaykit/quoterelay/internal/intake"
	"github.com/relaykit/quoterelay/internal/logging"
	"github.com/relaykit/quoterelay/internal/mail"
	"github.com/relaykit/quoterelay/internal/observability"
	"github.com/relaykit/quoterelay/internal/provision"
	"github.com/relaykit/quoterelay/internal/quotes"
	"github.com/relaykit/quoterelay/internal/ratelimit"
	"github.com/relaykit/quoterelay/internal/settings"
	"github.com/relaykit/quoterelay/internal/shopify"
	"github.com/relaykit/quoterelay/internal/store/postgres"
	"github.com/relaykit/quoterelay/internal/web"
	"github.com/relaykit/quoterelay/internal/web/handlers"
	"github.com/relaykit/quoterelay/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("quoterelay", cfg.LogFormat)

	// Metrics
	registry := prometheus.NewRegistry()
	observability.Register(registry)

	// Database
	db, err := postgres.NewDB(cfg.DatabaseURL, postgres.Options{
		MaxOpenConns:   cfg.DBMaxOpenConns,
		MaxIdleConns:   cfg.DBMaxIdleConns,
		ConnectRetries: cfg.DBConnectRetries,
		RetryDelay:     cfg.DBRetryDelay,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Migrations
	if err := database.RunMigrations(migrations.FS, cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Stores
	sessionStore := postgres.NewSessionStore(db)

	// Remote client factory
	factory := shopify.NewFactory(cfg.ShopifyAPIVersion, cfg.ShopifyTimeout)
	clients := handlers.NewSessionClientProvider(sessionStore, factory)

	// Notifier
	var sender mail.Sender
	if cfg.SMTPEnabled() {
		sender = mail.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		sender = mail.LogSender{}
	}
	notifier := mail.NewService(sender)

	// Services
	provisioner := provision.NewProvisioner()
	settingsService := settings.NewService(provisioner)
	window := ratelimit.NewWindow(cfg.SubmissionsPerWindow, cfg.SubmissionWindow, nil)
	intakeService := intake.NewService(window, provisioner, settingsService, notifier, nil)
	quotesService := quotes.NewService()

	// Rate limiter (per-IP edge)
	limiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Handlers
	intakeHandler := handlers.NewIntakeHandler(intakeService, clients)
	settingsHandler := handlers.NewSettingsHandler(settingsService, clients)
	quotesHandler := handlers.NewQuotesHandler(quotesService, clients)
	setupHandler := handlers.NewSetupHandler(provisioner, clients)
	sessionsHandler := handlers.NewSessionsHandler(sessionStore)

	// Router
	router := web.NewRouter(web.RouterDeps{
		IntakeHandler:   intakeHandler,
		SettingsHandler: settingsHandler,
		QuotesHandler:   quotesHandler,
		SetupHandler:    setupHandler,
		SessionsHandler: sessionsHandler,
		Limiter:         limiter,
		AdminAPIToken:   cfg.AdminAPIToken,
		Metrics:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("QuoteRelay starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
