package app

import (
	"context"
	"database/sql"
	"log/slog"

	_ "github.com/lib/pq"

	"BauplanChecker/internal/config"
	"BauplanChecker/internal/infrastructure/backend"
	"BauplanChecker/internal/infrastructure/normscan"
	"BauplanChecker/internal/infrastructure/scheduler"
	"BauplanChecker/internal/infrastructure/storage"
	"BauplanChecker/internal/infrastructure/telegram"
	"BauplanChecker/internal/jobs"
	"BauplanChecker/internal/logging"
	"BauplanChecker/internal/planstore"
	"BauplanChecker/internal/ports"
	"BauplanChecker/internal/scanner"
	"BauplanChecker/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	facade   *usecase.Facade
	poller   *usecase.Poller
	normSync *usecase.NormSync
	gateway  ports.BackendClient
	db       *sql.DB
}

// New builds a runnable engine instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	gateway := backend.NewClient(cfg.Backend.BaseURL, backend.Options{
		UploadTimeout:  cfg.Backend.UploadTimeout(),
		CheckTimeout:   cfg.Backend.CheckTimeout(),
		RequestTimeout: cfg.Backend.RequestTimeout(),
	})

	store := planstore.NewStore()
	tracker := jobs.NewTracker()

	var audit ports.CheckAuditRepository
	var db *sql.DB
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("audit database unavailable", "error", err)
		} else {
			db = opened
			audit = storage.NewPostgresRepository(db)
		}
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	facade := usecase.NewFacade(usecase.FacadeDeps{
		Backend: gateway,
		Store:   store,
		Tracker: tracker,
		Audit:   audit,
		Logger:  baseLogger.With("component", "facade"),
	})

	poller := usecase.NewPoller(usecase.PollerDeps{
		Backend:  gateway,
		Store:    store,
		Tracker:  tracker,
		Audit:    audit,
		Notifier: notifier,
		Driver:   scheduler.NewIntervalScheduler(cfg.Poller.Interval(), false),
		Logger:   baseLogger.With("component", "poller"),
	})

	var normSync *usecase.NormSync
	if cfg.NormSync.Enabled {
		registry := scanner.NewRegistry()
		registry.Register(normscan.NewHTMLScanner(nil))

		source := normscan.NewStrategySource(registry, cfg.Catalogs, baseLogger.With("component", "normscan"))

		normSync = usecase.NewNormSync(usecase.NormSyncDeps{
			Source:     source,
			Downloader: normscan.NewHTTPDownloader(nil),
			Backend:    gateway,
			Notifier:   notifier,
			Driver:     scheduler.NewIntervalScheduler(cfg.NormSync.Interval(), true),
			Logger:     baseLogger.With("component", "normsync"),
		})
	}

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		facade:   facade,
		poller:   poller,
		normSync: normSync,
		gateway:  gateway,
		db:       db,
	}
}

// Facade exposes the orchestration entry points to hosting surfaces.
func (a *Application) Facade() *usecase.Facade {
	return a.facade
}

// Run starts the engine and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.gateway.Health(ctx); err != nil {
		a.logger.Warn("backend not reachable yet", "url", a.cfg.Backend.BaseURL, "error", err)
	} else {
		a.logger.Info("backend reachable", "url", a.cfg.Backend.BaseURL)
	}

	if err := a.facade.RefreshPlans(ctx); err != nil {
		a.logger.Warn("initial plan refresh failed", "error", err)
	}

	if err := a.poller.Start(ctx); err != nil {
		return err
	}

	if a.normSync != nil {
		if err := a.normSync.Start(ctx); err != nil {
			return err
		}
	}

	<-ctx.Done()

	return a.shutdown()
}

func (a *Application) shutdown() error {
	stopCtx := context.Background()

	if err := a.poller.Stop(stopCtx); err != nil {
		a.logger.Warn("poller stop failed", "error", err)
	}

	if a.normSync != nil {
		if err := a.normSync.Stop(stopCtx); err != nil {
			a.logger.Warn("norm sync stop failed", "error", err)
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("audit database close failed", "error", err)
		}
	}

	a.logger.Info("engine stopped")
	return nil
}
