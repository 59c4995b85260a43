package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	rankinglifecycle "nominator/contexts/beatmap-moderation/ranking-lifecycle"
	badgeradapter "nominator/contexts/beatmap-moderation/ranking-lifecycle/adapters/badger"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/adapters/memory"
	postgresadapter "nominator/contexts/beatmap-moderation/ranking-lifecycle/adapters/postgres"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/adapters/webhook"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/application/workers"
	"nominator/internal/platform/config"
	"nominator/internal/platform/db"
	"nominator/internal/platform/httpserver"
	"nominator/internal/platform/kv"

	badger "github.com/dgraph-io/badger/v4"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	ledger   *badger.DB
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	ledger        *badger.DB
	sweeper       workers.PromotionSweeper
	sweepInterval time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	ledgerDB, err := kv.Open(cfg.BadgerPath)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := rankinglifecycle.NewModule(rankinglifecycle.Dependencies{
		Repo:     repo,
		Ledger:   badgeradapter.NewLedger(ledgerDB, logger),
		Cache:    memory.NewCache(),
		Notifier: webhook.NewDiscord(cfg.DiscordNominationWebhook, cfg.DiscordQualifiedWebhook, logger),
		Actors:   repo,
		Clock:    postgresadapter.SystemClock{},
		Logger:   logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		ledger:   ledgerDB,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	// The sweeper only promotes qualified sets, whose votes were cleared
	// at qualification, so it gets a private in-memory ledger instead of
	// sharing the API process's badger directory.
	ledgerDB, err := kv.Open("")
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := rankinglifecycle.NewModule(rankinglifecycle.Dependencies{
		Repo:     repo,
		Ledger:   badgeradapter.NewLedger(ledgerDB, logger),
		Cache:    memory.NewCache(),
		Notifier: webhook.NewDiscord(cfg.DiscordNominationWebhook, cfg.DiscordQualifiedWebhook, logger),
		Actors:   repo,
		Clock:    postgresadapter.SystemClock{},
		Logger:   logger,
	})

	return &WorkerApp{
		postgres: pg,
		ledger:   ledgerDB,
		sweeper: workers.PromotionSweeper{
			Repo:            repo,
			Transitions:     module.Transitions,
			Clock:           postgresadapter.SystemClock{},
			StabilityWindow: cfg.StabilityWindow,
			Logger:          logger,
		},
		sweepInterval: cfg.SweepInterval,
		logger:        logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	var errs []error
	if a.ledger != nil {
		errs = append(errs, a.ledger.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

// Run drives the promotion sweep on a fixed interval. Ticks never overlap
// because each RunOnce completes before the next wait; sweep failures are
// logged and left for the following tick.
func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"sweep_interval", w.sweepInterval.String(),
	)

	for {
		if err := w.sweeper.RunOnce(ctx); err != nil {
			w.logger.Error("promotion sweep tick failed",
				"event", "bootstrap_sweep_tick_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.ledger != nil {
		errs = append(errs, w.ledger.Close())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
