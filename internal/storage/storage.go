// Package storage opens the configured backend and hands out its user and trip stores.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/solotrip/solotrip-go/internal/config"
	"github.com/solotrip/solotrip-go/internal/repository"
	"github.com/solotrip/solotrip-go/internal/repository/memory"
	"github.com/solotrip/solotrip-go/internal/repository/postgres"
	"github.com/solotrip/solotrip-go/internal/service"
)

// Stores bundles the repositories of one backend. Close releases its connections.
type Stores struct {
	Users service.UserRepository
	Trips service.TripRepository
	Close func()
}

// Open connects to cfg.Driver, applying migrations first when cfg.AutoMigrate is set.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Stores, error) {
	pool := repository.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	switch cfg.Driver {
	case "memory":
		slog.Warn("using in-memory storage; data is lost on exit")
		return &Stores{
			Users: memory.NewUserRepository(),
			Trips: memory.NewTripRepository(),
			Close: func() {},
		}, nil

	case "postgres":
		p, err := postgres.Open(ctx, cfg.DSN, pool)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, p); err != nil {
				p.Close()
				return nil, err
			}
		}
		return &Stores{
			Users: postgres.NewUserRepository(p),
			Trips: postgres.NewTripRepository(p),
			Close: p.Close,
		}, nil

	case "mysql", "sqlite":
		db, err := openSQL(ctx, cfg.Driver, cfg.DSN, pool)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := repository.Migrate(ctx, db.DB, cfg.Driver); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &Stores{
			Users: repository.NewUserRepository(db),
			Trips: repository.NewTripRepository(db),
			Close: func() {
				if err := db.Close(); err != nil {
					slog.Error("closing database", "error", err)
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openSQL(ctx context.Context, driver, dsn string, pool repository.PoolOptions) (*sqlx.DB, error) {
	if driver == "sqlite" {
		return repository.NewSQLite(ctx, dsn)
	}
	return repository.NewMySQL(ctx, dsn, pool)
}
