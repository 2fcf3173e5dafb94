// Package storage opens the repository provider selected by STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger_app/internal/platform/config"
	"github.com/SscSPs/finance_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_ledger_app/internal/repositories/memory"
	"github.com/SscSPs/finance_ledger_app/pkg/database"
)

// Open returns the repositories for the configured driver and a function releasing
// them. For postgres, pending migrations are applied first when RunMigrations is set.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on exit.")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
		if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}
