package store

import (
	"context"
	"database/sql"
	"fmt"

	"goal-tracker/internal/config"
	"goal-tracker/internal/db"
)

// Backend is an opened KV plus, for SQL stores, the connection behind it so
// other writers (analytics) can share it.
type Backend struct {
	KV     KV
	DB     *sql.DB
	Driver string
}

func (b *Backend) Close() error {
	if b.DB != nil {
		return b.DB.Close()
	}
	return nil
}

// Open builds the store named by cfg.Store. SQL stores are migrated before
// they are returned.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return &Backend{KV: NewMemory()}, nil
	case config.StoreFile:
		return &Backend{KV: NewFile(cfg.StorePath)}, nil
	case config.StoreSQLite:
		return openSQL(ctx, db.SQLite, cfg.StorePath)
	case config.StorePostgres:
		return openSQL(ctx, db.Postgres, cfg.ConnString())
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func openSQL(ctx context.Context, driver, dsn string) (*Backend, error) {
	conn, err := db.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if err := db.Migrate(ctx, conn, driver); err != nil {
		conn.Close()
		return nil, err
	}
	return &Backend{KV: NewSQL(conn), DB: conn, Driver: driver}, nil
}
