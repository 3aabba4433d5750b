package store

import (
	"context"
	"database/sql"
	"errors"
)

// SQL stores keys in the kv_store table. The statements use $N placeholders
// and ON CONFLICT, which both postgres and sqlite accept.
type SQL struct {
	DB *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{DB: db}
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `
		SELECT value
		FROM kv_store
		WHERE name = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO kv_store (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			value = EXCLUDED.value
	`, key, value)
	return err
}
