// Package bootstrap is the composition root. Construction and wiring live
// here so module code stays framework-agnostic.
package bootstrap

import (
	"fmt"
	"log/slog"
	"os"

	reconciliationengine "councilwatch/contexts/legislation/reconciliation-engine"
	postgresadapter "councilwatch/contexts/legislation/reconciliation-engine/adapters/postgres"
	"councilwatch/contexts/legislation/reconciliation-engine/adapters/refcache"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/matching"
	"councilwatch/internal/platform/cache"
	"councilwatch/internal/platform/config"
	"councilwatch/internal/platform/db"
	"councilwatch/internal/platform/httpserver"
)

type APIApp struct {
	Server   *httpserver.Server
	postgres *db.Postgres
	Logger   *slog.Logger
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
}

// App bundles a fully wired module with its backing connection; the CLI uses
// it directly without an HTTP surface.
type App struct {
	Module   reconciliationengine.Module
	Config   config.Config
	postgres *db.Postgres
	Logger   *slog.Logger
}

func (a *App) Close() error {
	return a.postgres.Close()
}

func BuildAPI() (*APIApp, error) {
	app, err := Build()
	if err != nil {
		return nil, err
	}
	return &APIApp{
		Server:   httpserver.New(app.Module, app.Logger, ":"+app.Config.HTTPPort),
		postgres: app.postgres,
		Logger:   app.Logger,
	}, nil
}

func Build() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName)

	postgres, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	module, err := buildModule(cfg, postgres, logger)
	if err != nil {
		_ = postgres.Close()
		return nil, err
	}
	return &App{
		Module:   module,
		Config:   cfg,
		postgres: postgres,
		Logger:   logger,
	}, nil
}

func buildModule(cfg config.Config, postgres *db.Postgres, logger *slog.Logger) (reconciliationengine.Module, error) {
	if cfg.SubmitterAnalyzer != "rule_based" {
		return reconciliationengine.Module{}, fmt.Errorf("%w: %q", domainerrors.ErrUnknownAnalyzer, cfg.SubmitterAnalyzer)
	}

	rules := matching.DefaultRules()
	if cfg.KeywordRulesPath != "" {
		loaded, err := matching.LoadRules(cfg.KeywordRulesPath)
		if err != nil {
			return reconciliationengine.Module{}, err
		}
		rules = loaded
	}

	repo := postgresadapter.NewRepository(postgres.DB, logger)
	refCache := cache.NewMemoryCache(cfg.ReferenceCacheTTL, 2*cfg.ReferenceCacheTTL)

	return reconciliationengine.NewModule(reconciliationengine.Dependencies{
		Proposals:   repo,
		Conferences: repo,
		Meetings:    repo,
		Politicians: refcache.MemberDirectory{
			Next:  repo,
			Cache: refCache,
			TTL:   cfg.ReferenceCacheTTL,
		},
		Groups: refcache.GroupDirectory{
			Next:  repo,
			Cache: refCache,
			TTL:   cfg.ReferenceCacheTTL,
		},
		Memberships:    repo,
		Extracted:      repo,
		GroupJudgments: repo,
		Individuals:    repo,
		Submitters:     repo,
		Rules:          rules,
		Clock:          postgresadapter.SystemClock{},
		IDGen:          postgresadapter.UUIDGenerator{},
		Logger:         logger,
	}), nil
}
