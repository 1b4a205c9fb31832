package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/meridianerp/notify-backend/internal/api"
	"github.com/meridianerp/notify-backend/internal/config"
	"github.com/meridianerp/notify-backend/internal/db"
	"github.com/meridianerp/notify-backend/internal/email"
	"github.com/meridianerp/notify-backend/internal/notify"
	"github.com/meridianerp/notify-backend/internal/pdf"
	"github.com/meridianerp/notify-backend/internal/scheduler"
	"github.com/meridianerp/notify-backend/internal/settings"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	queries := db.New(pool)

	// ── Settings store ────────────────────────────────────────────────────────
	st := settings.New(queries, logger)

	// ── Email (Resend) ────────────────────────────────────────────────────────
	// The client is constructed once with its credential and sender identity.
	// Admin-edited overrides in the settings table win over the env defaults;
	// credential rotation requires a restart, which is the point — no shared
	// client is mutated mid-flight.
	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	apiKey := st.String(startupCtx, settings.KeyResendAPIKey, cfg.ResendAPIKey)
	from := st.String(startupCtx, settings.KeyEmailFrom, cfg.EmailFrom)
	cancel()

	mailer := email.NewResendClient(apiKey, from)
	logger.Info("email client ready", "from", from)

	// ── Dispatcher ────────────────────────────────────────────────────────────
	dispatcher := notify.New(queries, st, mailer, notify.Config{
		EnableEmailNotifications: cfg.EnableEmailNotifications,
		LowStockEmailEnabled:     cfg.LowStockEmailEnabled,
		OrderEmailEnabled:        cfg.OrderEmailEnabled,
		DailyReportEmailEnabled:  cfg.DailyReportEmailEnabled,
		AdminEmail:               cfg.AdminEmail,
		BaseURL:                  cfg.BaseURL,
	}, logger)

	// ── PDF exporter ──────────────────────────────────────────────────────────
	exporter := pdf.New(logger)

	// ── Scheduler ─────────────────────────────────────────────────────────────
	runner := scheduler.NewRunner(queries, dispatcher, scheduler.Config{
		DailyReportHour:      cfg.DailyReportHour,
		LowStockScanInterval: cfg.LowStockScanInterval,
	}, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		queries,
		dispatcher,
		exporter,
		api.Config{Env: cfg.Env},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // PDF export of a large report can be slow
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	// Root context cancelled by OS signal. Scheduler and HTTP server both
	// respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the scheduler in a background goroutine. It blocks until ctx is done.
	go runner.Start(ctx)

	// Start the HTTP server in a background goroutine.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// The scheduler goroutine exits when ctx is cancelled (already done).
	logger.Info("shutdown complete")
	return nil
}

// openDB opens and verifies the connection pool against the ERP database.
func openDB(dsn string) (*sql.DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	// Tune the connection pool. This service only reads, and rarely.
	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	// Verify the connection is reachable before proceeding.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
