package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"zsxq_sync/internal/blob/qiniu"
	"zsxq_sync/internal/config"
	"zsxq_sync/internal/content"
	"zsxq_sync/internal/domain"
	"zsxq_sync/internal/events"
	"zsxq_sync/internal/images"
	"zsxq_sync/internal/ledger"
	"zsxq_sync/internal/publisher/wordpress"
	"zsxq_sync/internal/scheduler"
	"zsxq_sync/internal/service"
	"zsxq_sync/internal/source/zsxq"
	"zsxq_sync/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "incremental", "sync mode: full, incremental, concurrent or watch")
	workers := flag.Int("workers", 0, "worker count for concurrent mode (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	skipValidation := flag.Bool("skip-validation", false, "skip source and target connection checks")
	forceResync := flag.Bool("force-resync", false, "ignore existing sync state and start over")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *verbose {
		cfg.LogLevel = "debug"
	}
	logger = setupLogger(cfg.LogLevel)

	if *workers > 0 {
		cfg.Sync.Workers = *workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	source := zsxq.New(zsxq.Config{
		BaseURL:         cfg.ZSXQ.BaseURL,
		AccessToken:     cfg.ZSXQ.AccessToken,
		GroupID:         cfg.ZSXQ.GroupID,
		UserAgent:       cfg.ZSXQ.UserAgent,
		Timeout:         cfg.ZSXQ.Timeout,
		RequestInterval: cfg.ZSXQ.RequestInterval,
		MaxAttempts:     cfg.ZSXQ.Retry.MaxAttempts,
		InitialBackoff:  cfg.ZSXQ.Retry.InitialBackoff,
		MaxBackoff:      cfg.ZSXQ.Retry.MaxBackoff,
	}, logger)

	target := wordpress.New(wordpress.Config{
		BaseURL:        cfg.WordPress.BaseURL,
		Username:       cfg.WordPress.Username,
		Password:       cfg.WordPress.Password,
		MomentPostType: cfg.WordPress.MomentPostType,
		Timeout:        cfg.WordPress.Timeout,
		MaxAttempts:    cfg.WordPress.Retry.MaxAttempts,
		InitialBackoff: cfg.WordPress.Retry.InitialBackoff,
		MaxBackoff:     cfg.WordPress.Retry.MaxBackoff,
	}, logger)

	var relocator service.ImageRelocator
	if cfg.Qiniu.Configured() {
		uploader := qiniu.New(qiniu.Config{
			AccessKey: cfg.Qiniu.AccessKey,
			SecretKey: cfg.Qiniu.SecretKey,
			Bucket:    cfg.Qiniu.Bucket,
			Domain:    cfg.Qiniu.Domain,
		}, logger)
		relocator = images.NewPipeline(uploader, images.Config{
			Workers:        cfg.Images.Workers,
			Timeout:        cfg.Images.Timeout,
			MaxAttempts:    cfg.Images.MaxAttempts,
			InitialBackoff: cfg.Images.InitialBackoff,
			MaxBackoff:     cfg.Images.MaxBackoff,
		}, logger)
	} else {
		logger.Warn("qiniu storage not configured, images keep their original urls")
	}

	if !*skipValidation {
		if err := source.Validate(ctx); err != nil {
			logger.Error("zsxq connection check failed", "error", err)
			os.Exit(1)
		}
		if err := target.Validate(ctx); err != nil {
			logger.Error("wordpress connection check failed", "error", err)
			os.Exit(1)
		}
		logger.Info("connection checks passed")
	}

	led, cleanup, err := openLedger(ctx, cfg, *forceResync, logger)
	if err != nil {
		logger.Error("failed to open sync ledger", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var notifier service.Notifier
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := events.NewRabbitMQ(events.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		notifier = rabbitMQ
	}

	processor := content.NewProcessor(content.Options{
		ArticleMaxTitleLen: cfg.Content.ArticleMaxTitleLen,
		MomentMaxTitleLen:  cfg.Content.MomentMaxTitleLen,
		MomentTitlePrefix:  cfg.Content.MomentTitlePrefix,
		PlaceholderTitle:   cfg.Content.PlaceholderTitle,
		EliteTag:           cfg.Content.EliteTag,
		EliteCategory:      cfg.Content.EliteCategory,
		StickyCategory:     cfg.Content.StickyCategory,
		ArticleCategory:    cfg.Content.ArticleCategory,
		MomentCategory:     cfg.Content.MomentCategory,
	})

	syncService := service.NewSyncService(
		source,
		target,
		relocator,
		led,
		notifier,
		processor,
		logger,
		cfg.Sync,
	)

	logger.Info("starting zsxq syncer",
		"mode", *mode,
		"group_id", cfg.ZSXQ.GroupID,
		"ledger_backend", cfg.Ledger.Backend,
		"already_synced", led.TotalSynced(),
	)

	if *mode == "watch" {
		sched := scheduler.NewScheduler(
			incrementalSyncer{service: syncService},
			cfg.Sync.Interval,
			logger,
		)
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}
		return
	}

	runMode, err := parseMode(*mode)
	if err != nil {
		logger.Error("invalid mode", "error", err)
		os.Exit(1)
	}

	summary, err := syncService.Run(ctx, runMode)
	if err != nil {
		logger.Error("sync run failed", "error", err)
		os.Exit(1)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// incrementalSyncer adapts the sync service to the scheduler interface.
// Watch mode always runs incrementally.
type incrementalSyncer struct {
	service *service.SyncService
}

func (s incrementalSyncer) Sync(ctx context.Context) (*domain.RunSummary, error) {
	return s.service.Run(ctx, service.ModeIncremental)
}

func parseMode(s string) (service.Mode, error) {
	switch s {
	case "full":
		return service.ModeFull, nil
	case "incremental":
		return service.ModeIncremental, nil
	case "concurrent":
		return service.ModeConcurrent, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// openLedger builds the configured backend and loads state from it.
// The returned cleanup closes the database connection for the postgres
// backend and is a no-op for the file backend.
func openLedger(ctx context.Context, cfg *config.Config, forceResync bool, logger *slog.Logger) (*ledger.Ledger, func(), error) {
	var backend ledger.Backend
	cleanup := func() {}

	switch cfg.Ledger.Backend {
	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		store := postgres.NewLedgerStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure ledger schema: %w", err)
		}
		backend = store
		cleanup = func() { db.Close() }
	default:
		backend = ledger.NewFileBackend(cfg.Ledger.Path)
	}

	if forceResync {
		logger.Warn("forced resync requested, starting with an empty ledger")
		return ledger.New(backend, logger), cleanup, nil
	}

	led, err := ledger.Open(ctx, backend, logger)
	if err != nil {
		var corrupt *ledger.CorruptError
		if errors.As(err, &corrupt) {
			cleanup()
			return nil, nil, fmt.Errorf(
				"sync state is corrupt, previous state saved to %s; rerun with -force-resync to start over: %w",
				corrupt.BackupPath, err,
			)
		}
		cleanup()
		return nil, nil, err
	}
	return led, cleanup, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
