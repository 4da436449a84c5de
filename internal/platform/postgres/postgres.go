// Package postgres opens the PostgreSQL handles used by the stores: a
// database/sql pool on lib/pq for the audit trail and a pgx pool for the
// application pipeline.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"finai/internal/platform/config"
)

// Handles bundles both pools opened against the same database.
type Handles struct {
	DB   *sql.DB
	Pool *pgxpool.Pool
}

// Open connects both pools. Returns nil, nil if the URL is empty (PostgreSQL
// not configured).
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Handles, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("parse postgres URL: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = db.Close()
		return nil, fmt.Errorf("pgx ping failed: %w", err)
	}

	return &Handles{DB: db, Pool: pool}, nil
}

// Health pings both pools.
func (h *Handles) Health(ctx context.Context) error {
	if err := h.DB.PingContext(ctx); err != nil {
		return err
	}
	return h.Pool.Ping(ctx)
}

func (h *Handles) Close() error {
	h.Pool.Close()
	return h.DB.Close()
}
