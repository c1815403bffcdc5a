// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/docs"
)

// poolIface is the subset of pgxpool.Pool the alias repository needs.
// Narrow so tests can substitute pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AliasRepository binds human-readable aliases to documents.
type AliasRepository interface {
	// Resolve returns the document id an alias points at. Aliases for
	// archived documents do not resolve.
	Resolve(ctx context.Context, alias string) (ulid.ULID, error)
	// Set creates or repoints an alias.
	Set(ctx context.Context, alias string, documentID ulid.ULID, at time.Time) error
	// Delete removes an alias. Deleting a missing alias is a no-op.
	Delete(ctx context.Context, alias string) error
	// ListByDocument returns every alias bound to a document.
	ListByDocument(ctx context.Context, documentID ulid.ULID) ([]string, error)
}

// PostgresAliasRepository implements AliasRepository using PostgreSQL.
type PostgresAliasRepository struct {
	pool poolIface
}

// NewPostgresAliasRepository creates a new PostgreSQL alias repository.
func NewPostgresAliasRepository(pool poolIface) *PostgresAliasRepository {
	return &PostgresAliasRepository{pool: pool}
}

var _ AliasRepository = (*PostgresAliasRepository)(nil)

// Resolve returns the document id behind an alias. Aliases pointing at
// archived documents behave as if the alias did not exist.
func (r *PostgresAliasRepository) Resolve(ctx context.Context, alias string) (ulid.ULID, error) {
	var idStr string
	err := r.pool.QueryRow(ctx, `
		SELECT a.document_id
		FROM document_aliases a
		JOIN documents d ON d.id = a.document_id
		WHERE a.alias = $1 AND d.deleted_at IS NULL
	`, alias).Scan(&idStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ulid.ULID{}, oops.Code("ALIAS_NOT_FOUND").With("alias", alias).Wrap(docs.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.With("operation", "resolve alias").With("alias", alias).Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return ulid.ULID{}, oops.With("operation", "parse alias target").With("alias", alias).Wrap(err)
	}
	return id, nil
}

// Set creates or repoints an alias.
func (r *PostgresAliasRepository) Set(ctx context.Context, alias string, documentID ulid.ULID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO document_aliases (alias, document_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (alias) DO UPDATE SET document_id = $2, created_at = $3
	`, alias, documentID.String(), at)
	if err != nil {
		return oops.With("operation", "set alias").With("alias", alias).Wrap(err)
	}
	return nil
}

// Delete removes an alias.
func (r *PostgresAliasRepository) Delete(ctx context.Context, alias string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM document_aliases WHERE alias = $1`, alias)
	if err != nil {
		return oops.With("operation", "delete alias").With("alias", alias).Wrap(err)
	}
	return nil
}

// ListByDocument returns every alias bound to a document.
func (r *PostgresAliasRepository) ListByDocument(ctx context.Context, documentID ulid.ULID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT alias FROM document_aliases WHERE document_id = $1 ORDER BY alias`,
		documentID.String())
	if err != nil {
		return nil, oops.With("operation", "list aliases").With("document_id", documentID.String()).Wrap(err)
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, oops.With("operation", "scan alias row").Wrap(err)
		}
		aliases = append(aliases, alias)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate aliases").Wrap(err)
	}
	return aliases, nil
}
