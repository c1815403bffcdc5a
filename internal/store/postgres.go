// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

// Package store provides storage bootstrap: the pgx connection pool,
// schema migrations, and the alias binding repository.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
)

// NewPool opens a pgx connection pool for the given DSN and verifies
// connectivity before returning it.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}
	return pool, nil
}
