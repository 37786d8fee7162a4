package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/vault-keeper/internal/config"
	"github.com/and161185/vault-keeper/internal/limiter"
	"github.com/and161185/vault-keeper/internal/migrate"
	"github.com/and161185/vault-keeper/internal/repository"
	"github.com/and161185/vault-keeper/internal/repository/memory"
	"github.com/and161185/vault-keeper/internal/repository/postgres"
	"github.com/and161185/vault-keeper/internal/repository/sqlite"
)

// stores bundles the repositories and limiter of one backend.
type stores struct {
	users  repository.UserRepository
	vaults repository.VaultRepository
	lim    limiter.Limiter
	close  func()
}

// openStores migrates and opens the configured backend.
func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		if err := migrate.UpPostgres(ctx, cfg.DSN); err != nil {
			return nil, fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, cfg.DSN, cfg.DBMaxConns)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &stores{
			users:  postgres.NewUserRepo(db),
			vaults: postgres.NewVaultRepo(db),
			lim:    limiter.NewPG(db.Pool, cfg.LimiterConfig()),
			close:  db.Close,
		}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		if err := migrate.Up(ctx, db.SQL, migrate.DialectSQLite); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate up: %w", err)
		}
		return &stores{
			users:  sqlite.NewUserRepo(db),
			vaults: sqlite.NewVaultRepo(db),
			lim:    limiter.NewMemory(cfg.LimiterConfig()),
			close:  func() { _ = db.Close() },
		}, nil

	case config.BackendMemory:
		log.Warn("memory backend: vaults are lost on restart")
		return &stores{
			users:  memory.NewUserRepo(),
			vaults: memory.NewVaultRepo(),
			lim:    limiter.NewMemory(cfg.LimiterConfig()),
			close:  func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
