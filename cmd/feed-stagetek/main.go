package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/audioworx/feedsync/internal/browser"
	"github.com/audioworx/feedsync/internal/config"
	"github.com/audioworx/feedsync/internal/connectors/stagetek"
	"github.com/audioworx/feedsync/internal/database"
	"github.com/audioworx/feedsync/internal/ratelimit"
	"github.com/audioworx/feedsync/internal/runner"
)

func main() {
	var (
		dryRun   = flag.Bool("dry-run", false, "Log intended upserts without writing")
		limit    = flag.Int("limit", 0, "Cap the number of records processed (0 = no cap)")
		headless = flag.Bool("headless", true, "Run browser in headless mode")
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

	supplier, err := db.SupplierBySlug(ctx, stagetek.SupplierSlug)
	if err != nil {
		slog.Error("supplier lookup failed", "error", err)
		os.Exit(1)
	}

	b, err := browser.New(&browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
	})
	if err != nil {
		slog.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	scraper := stagetek.NewScraper(b, cfg.Feed.BaseURL)
	source := stagetek.NewSource(scraper, supplier.ID)
	limiter := ratelimit.NewSimpleRateLimiter(cfg.Feed.DelayMin, cfg.Feed.DelayMax)

	r := runner.New(db, source, limiter, runner.Options{
		SupplierSlug: stagetek.SupplierSlug,
		DryRun:       *dryRun,
		Limit:        *limit,
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
