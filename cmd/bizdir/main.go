// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the business directory API.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support. Run with the "sweep"
// argument to release expired position slots once and exit.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bizdir/internal/cache"
	"bizdir/internal/config"
	"bizdir/internal/database"
	"bizdir/internal/handlers"
	"bizdir/internal/mailer"
	"bizdir/internal/metrics"
	"bizdir/internal/router"
	"bizdir/internal/session"
	"bizdir/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.App))
	slog.Info("configuration loaded",
		"env", cfg.App.Env,
		"addr", cfg.Addr(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "sweep" {
		if err := sweep(ctx, db); err != nil {
			slog.Error("position sweep failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + public response cache).
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.Valkey.Password)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	respCache := cache.NewResponseCache(valkeyClient, cfg.Cache.TTL)
	// Migrations or seeding may have changed reference data.
	respCache.InvalidateAll(ctx)

	// Reset mail goes out in the background so forgot-password answers in
	// the same time for known and unknown addresses.
	mail := mailer.NewAsync(mailer.New(cfg.SMTP), 30*time.Second)
	if !cfg.SMTPEnabled() {
		slog.Warn("smtp not configured, reset emails are logged instead of sent")
	}

	// Initialize data stores.
	listingStore := store.NewListingStore(db)
	submissionStore := store.NewSubmissionStore(db)
	userStore := store.NewUserStore(db)
	adminStore := store.NewAdminStore(db)
	categoryStore := store.NewCategoryStore(db)
	locationStore := store.NewLocationStore(db)
	packageStore := store.NewPackageStore(db)

	h := router.Handlers{
		Public:      handlers.NewPublic(listingStore, categoryStore, locationStore, packageStore, respCache),
		Submissions: handlers.NewSubmissions(submissionStore),
		User:        handlers.NewUser(userStore, listingStore),
		Admin:       handlers.NewAdmin(listingStore, submissionStore, userStore),
		Reference:   handlers.NewReference(categoryStore, locationStore, packageStore, respCache),
		Auth:        handlers.NewAuth(sessionStore, adminStore, userStore, mail, cfg.Auth.ResetTokenTTL, cfg.Auth.ResetURL),
	}

	r := router.New(sessionStore, h, router.Options{
		CORSOrigins:   cfg.App.CORSOrigins,
		SecureCookies: secureCookies,
		RateLimit:     cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can wait for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	mail.Wait()

	slog.Info("server stopped gracefully")
}

// sweep releases every expired position slot.
func sweep(ctx context.Context, db *sql.DB) error {
	ids, err := store.NewListingStore(db).SweepExpiredPositions(ctx)
	if err != nil {
		return err
	}
	metrics.PositionSweepCleared.Add(float64(len(ids)))
	slog.Info("expired positions cleared", "count", len(ids), "listing_ids", ids)
	return nil
}

// newLogger outputs text in development and JSON everywhere else.
func newLogger(app config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(app.LogLevel)}
	if app.Env == "development" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo
	}
	return l
}
