// Package main is the entrypoint for the jobwatch API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobwatchhq/jobwatch/internal/api"
	"github.com/jobwatchhq/jobwatch/internal/api/handler"
	mw "github.com/jobwatchhq/jobwatch/internal/api/middleware"
	"github.com/jobwatchhq/jobwatch/internal/cache"
	"github.com/jobwatchhq/jobwatch/internal/config"
	"github.com/jobwatchhq/jobwatch/internal/notify"
	"github.com/jobwatchhq/jobwatch/internal/scheduler"
	"github.com/jobwatchhq/jobwatch/internal/scraper"
	"github.com/jobwatchhq/jobwatch/internal/search"
	"github.com/jobwatchhq/jobwatch/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — .env first (ignored when absent), fail fast on invalid config
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"env", cfg.Server.Env,
		"check_interval", cfg.Scheduler.CheckInterval.String(),
		"smtp_configured", cfg.SMTP.Configured(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store
	pgStore := store.NewPostgresStore(pool)

	// 6. Mail transport and dispatcher
	mailer, err := notify.NewMailer(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	dispatcher := notify.NewDispatcher(mailer, redisCache, slog.Default())

	// 7. Alert scheduler
	sched := scheduler.New(pgStore, dispatcher, cfg.Scheduler.CheckInterval, slog.Default())
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	// 8. Search service (board sources only when a scraper is configured)
	var sources []search.Source
	if cfg.Search.ScraperURL != "" {
		client := scraper.NewHTTPClient(cfg.Search.ScraperURL, cfg.Search.ScrapeTimeout)
		sources = append(sources,
			search.NewIndeedSource(client, cfg.Search.ResultLimit),
			search.NewLinkedInSource(client, cfg.Search.ResultLimit),
		)
		slog.Info("scraper configured", "url", cfg.Search.ScraperURL)
	} else {
		slog.Warn("SCRAPER_URL not set, on-demand search has no board sources")
	}
	searchSvc := search.NewService(sources, pgStore, redisCache, cfg.Search.ResultCacheTTL, slog.Default())

	// 9. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler: handler.NewHealthHandler(pgStore, redisCache),

		CreateAlertHandler: handler.NewCreateAlertHandler(pgStore),
		ListAlertsHandler:  handler.NewListAlertsHandler(pgStore),
		DeleteAlertHandler: handler.NewDeleteAlertHandler(pgStore),

		ListJobsHandler: handler.NewListJobsHandler(pgStore),
		SearchHandler:   handler.NewSearchHandler(searchSvc),

		ListSavedHandler:   handler.NewListSavedHandler(pgStore),
		SaveJobHandler:     handler.NewSaveJobHandler(pgStore),
		RemoveSavedHandler: handler.NewRemoveSavedHandler(pgStore),
		ListAppliedHandler: handler.NewListAppliedHandler(pgStore),
		MarkAppliedHandler: handler.NewMarkAppliedHandler(pgStore),

		CreateKeyHandler: handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:  handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler: handler.NewRevokeKeyHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 10. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Stop the scheduler first and wait for any in-flight alert check, so no
	// dispatch is cut off mid-send.
	<-sched.Stop().Done()
	slog.Info("scheduler stopped")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
