// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool that backs every YaMDb repository
// (users, taxonomy, titles, reviews and comments).
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

const (
	defaultMaxConns  = 25
	connectTimeout   = 5 * time.Second
	pingTimeout      = 2 * time.Second
	idleConnLifetime = 10 * time.Minute
)

// PoolOptions tunes the pool. Zero values select the defaults.
type PoolOptions struct {
	MaxConns int32

	// StatementTimeout is sent as the statement_timeout session parameter so
	// that a slow rating aggregate cannot outlive the HTTP request deadline.
	StatementTimeout time.Duration
}

func (o PoolOptions) withDefaults() PoolOptions {
	if o.MaxConns <= 0 {
		o.MaxConns = defaultMaxConns
	}
	if o.StatementTimeout <= 0 || o.StatementTimeout > constants.GlobalRequestTimeout {
		o.StatementTimeout = constants.GlobalRequestTimeout
	}
	return o
}

/*
NewPool parses dsn, applies options and verifies the database is reachable.

Parameters:
  - ctx: context.Context (bounds the initial connect and ping)
  - dsn: string (postgres:// URL or libpq key/value string)
  - options: PoolOptions
  - logger: *slog.Logger

Returns:
  - *pgxpool.Pool: ready pool
  - error: DSN or connectivity failures
*/
func NewPool(ctx context.Context, dsn string, options PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	options = options.withDefaults()

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres_dsn_invalid: %w", err)
	}

	poolConfig.MaxConns = options.MaxConns
	poolConfig.MinConns = max(options.MaxConns/5, 1)
	poolConfig.MaxConnIdleTime = idleConnLifetime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["application_name"] = constants.AppName
	runtime["statement_timeout"] = strconv.FormatInt(options.StatementTimeout.Milliseconds(), 10)
	runtime["timezone"] = "UTC"

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres_pool_failed: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_ready",
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Int("min_conns", int(poolConfig.MinConns)),
		slog.Duration("statement_timeout", options.StatementTimeout),
	)

	return pool, nil
}

// Ping backs the readiness probe.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres_ping_failed: %w", err)
	}
	return nil
}
