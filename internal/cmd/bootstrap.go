package cmd

import (
	"context"
	"fmt"

	"restaurant_manager/internal/config"
	"restaurant_manager/internal/database"
	"restaurant_manager/internal/handlers"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/migrations"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/repository/memory"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every command needs after startup.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	repos *repository.Repositories
}

func bootstrap() (*app, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		a.repos = memory.New()
		return a, nil
	}

	db, err := database.Initialize(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunMigrations(db, log); err != nil {
		database.Close(db)
		return nil, err
	}
	a.db = db
	a.repos = repository.NewGormRepositories(db)
	return a, nil
}

func (a *app) seed(ctx context.Context) error {
	return migrations.SeedDefaults(ctx, a.repos, a.cfg.Admin, a.log)
}

func (a *app) checks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if a.db != nil {
		checks["database"] = func(ctx context.Context) error {
			return database.Ping(ctx, a.db)
		}
	}
	return checks
}

func (a *app) close() {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.log.Warn("Failed to close database", zap.Error(err))
		}
	}
	a.log.Sync()
}
