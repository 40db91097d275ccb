package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool with the entries schema in place
func InitPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates the entries table and its indexes if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// internal_id never leaves the server; id is the application level key
	entriesTable := `
		CREATE TABLE IF NOT EXISTS entries (
			internal_id BIGSERIAL PRIMARY KEY,
			id VARCHAR(64) UNIQUE NOT NULL,
			kind VARCHAR(20) NOT NULL CHECK (kind IN ('creativity', 'activity', 'service', 'conversation')),
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			week INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			entry_date TIMESTAMPTZ,
			media JSONB NOT NULL DEFAULT '[]'::jsonb
		);
	`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_kind_created_at ON entries(kind, created_at DESC);`,
	}

	if _, err := pool.Exec(ctx, entriesTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
