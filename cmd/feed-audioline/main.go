package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/audioworx/feedsync/internal/config"
	"github.com/audioworx/feedsync/internal/connectors/audioline"
	"github.com/audioworx/feedsync/internal/database"
	"github.com/audioworx/feedsync/internal/ratelimit"
	"github.com/audioworx/feedsync/internal/runner"
)

func main() {
	var (
		dryRun = flag.Bool("dry-run", false, "Log intended upserts without writing")
		limit  = flag.Int("limit", 0, "Cap the number of records processed (0 = no cap)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	if cfg.Feed.Username == "" || cfg.Feed.Password == "" {
		slog.Error("FEED_USERNAME and FEED_PASSWORD are required for audioline")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("shutdown signal received")
		cancel()
	}()

	db, err := database.New(ctx, database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		Database:    cfg.Database.DBName,
		SSLMode:     cfg.Database.SSLMode,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		MaxConnLife: cfg.Database.MaxConnLife,
		MaxConnIdle: cfg.Database.MaxConnIdle,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	supplier, err := db.SupplierBySlug(ctx, audioline.SupplierSlug)
	if err != nil {
		slog.Error("supplier lookup failed", "error", err)
		os.Exit(1)
	}

	// One cookie-carrying client shared by login and every page fetch.
	httpClient, err := audioline.NewHTTPClient()
	if err != nil {
		slog.Error("failed to create HTTP client", "error", err)
		os.Exit(1)
	}

	baseURL := cfg.Feed.BaseURL
	if baseURL == "" {
		baseURL = audioline.DefaultBaseURL
	}

	auth := audioline.NewAuthenticator(httpClient, baseURL, cfg.Feed.Username, cfg.Feed.Password)
	scraper := audioline.NewScraper(httpClient, baseURL, cfg.Feed.PageSize)
	source := audioline.NewSource(auth, scraper, supplier.ID)
	limiter := ratelimit.NewSimpleRateLimiter(cfg.Feed.DelayMin, cfg.Feed.DelayMax)

	r := runner.New(db, source, limiter, runner.Options{
		SupplierSlug: audioline.SupplierSlug,
		DryRun:       *dryRun,
		Limit:        *limit,
		PageSize:     scraper.PageSize(),
	})

	report, err := r.Run(ctx)
	if err != nil {
		slog.Error("sync failed", "error", err)
		os.Exit(1)
	}

	slog.Info("sync complete",
		"added", report.Added,
		"updated", report.Updated,
		"errors", len(report.Errors))
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
