package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"FilingScanner/internal/config"
	"FilingScanner/internal/infrastructure/enrich"
	"FilingScanner/internal/infrastructure/noticefeed"
	"FilingScanner/internal/infrastructure/regulator"
	"FilingScanner/internal/infrastructure/repository"
	"FilingScanner/internal/infrastructure/scheduler"
	"FilingScanner/internal/infrastructure/storage"
	"FilingScanner/internal/infrastructure/telegram"
	"FilingScanner/internal/logging"
	"FilingScanner/internal/ports"
	"FilingScanner/internal/source"
	"FilingScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := source.NewRegistry()
	registry.Register(config.KindRegulator, regulator.Factory)
	registry.Register(config.KindRepository, repository.Factory)
	registry.Register(config.KindNoticeFeed, noticefeed.Factory)

	deps := source.Deps{
		Client:    &http.Client{Timeout: cfg.HTTP.SourceTimeout()},
		UserAgent: cfg.HTTP.UserAgent,
		Logger:    baseLogger.With("component", "source"),
	}

	sources := make([]ports.FilingSource, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		adapter, err := registry.Build(sc, deps)
		if err != nil {
			baseLogger.Warn("skipping misconfigured source", "name", sc.Name, "error", err)
			continue
		}
		sources = append(sources, adapter)
	}

	var store ports.FilingStore
	var db *sql.DB
	if cfg.Database.DSN != "" {
		opened, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		db = opened
		store = storage.NewPostgresStore(db)
	} else {
		baseLogger.Warn("no database connection string configured, persistence disabled")
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:       sources,
		Enricher:      enrich.NewClient(cfg.Enrichment),
		Store:         store,
		Notifier:      notifier,
		SourceTimeout: cfg.HTTP.SourceTimeout(),
		Logger:        baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, db: db}, nil
}

// Run executes a single ingestion cycle, or keeps cycling on an interval when
// one is configured.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	interval := a.cfg.Scheduler.Interval()
	if interval <= 0 {
		return a.pipeline.Run(ctx)
	}

	driver := scheduler.NewIntervalScheduler(interval)
	runner := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	if err := runner.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return runner.Stop(context.Background())
}

func (a *Application) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing database", "error", err)
		}
	}
}
