// Package db opens the shared Postgres pool used by operational tooling.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Open opens a pgx-backed pool and verifies connectivity before returning.
// The ping is bounded so a wrong DATABASE_URL fails fast instead of hanging
// on the driver's default dial timeout.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}

	return pool, nil
}
