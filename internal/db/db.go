package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names as registered with database/sql.
const (
	Postgres = "postgres"
	SQLite   = "sqlite3"
)

func Connect(driver, connString string) (*sql.DB, error) {
	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// sqlite serialises writers; one connection avoids "database is locked".
	if driver == SQLite {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

var schema = map[string][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS kv_store (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analytics_events (
			id               BIGSERIAL PRIMARY KEY,
			event_name       TEXT NOT NULL,
			event_time       TIMESTAMPTZ NOT NULL,
			session_id       TEXT,
			platform         TEXT NOT NULL,
			app_version      TEXT NOT NULL,
			device_locale    TEXT,
			source_event_key TEXT UNIQUE,
			properties       TEXT NOT NULL
		)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS kv_store (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analytics_events (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			event_name       TEXT NOT NULL,
			event_time       DATETIME NOT NULL,
			session_id       TEXT,
			platform         TEXT NOT NULL,
			app_version      TEXT NOT NULL,
			device_locale    TEXT,
			source_event_key TEXT UNIQUE,
			properties       TEXT NOT NULL
		)`,
	},
}

// Migrate creates the tables the store and analytics recorder write to.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schema[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
