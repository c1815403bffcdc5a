// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/docs"
)

const revisionColumns = `id, document_id, number, created_at, created_by, created_by_name,
	type, source_code, public_metadata, private_metadata`

// RevisionRepository implements docs.RevisionRepository using PostgreSQL.
type RevisionRepository struct {
	pool poolIface
}

// NewRevisionRepository creates a new RevisionRepository.
func NewRevisionRepository(pool poolIface) *RevisionRepository {
	return &RevisionRepository{pool: pool}
}

// Get retrieves a revision by id.
func (r *RevisionRepository) Get(ctx context.Context, id ulid.ULID) (*docs.Revision, error) {
	row := querierFromCtx(ctx, r.pool).QueryRow(ctx, `
		SELECT `+revisionColumns+`
		FROM revisions WHERE id = $1
	`, id.String())
	rev, err := scanRevisionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("REVISION_NOT_FOUND").With("id", id.String()).Wrap(docs.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get revision").With("id", id.String()).Wrap(err)
	}
	return rev, nil
}

// Create persists a new revision, assigning the next gap-free number
// for the document inside the insert itself. The unique constraint on
// (document_id, number) turns a concurrent-numbering race into
// ErrConflict, which callers retry.
func (r *RevisionRepository) Create(ctx context.Context, rev *docs.Revision) error {
	err := querierFromCtx(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO revisions (`+revisionColumns+`)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(number), 0) + 1 FROM revisions WHERE document_id = $2),
			$3, $4, $5, $6, $7, $8, $9)
		RETURNING number
	`, rev.ID.String(), rev.DocumentID.String(),
		rev.Created, rev.CreatedBy.String(), rev.CreatedByName,
		string(rev.Type), rev.SourceCode, rev.PublicMetadata, rev.PrivateMetadata,
	).Scan(&rev.Number)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("REVISION_NUMBER_CONFLICT").
				With("document_id", rev.DocumentID.String()).
				Wrap(docs.ErrConflict)
		}
		return oops.With("operation", "create revision").With("id", rev.ID.String()).Wrap(err)
	}
	return nil
}

// ListByDocument returns all revisions of a document, newest number first.
func (r *RevisionRepository) ListByDocument(ctx context.Context, documentID ulid.ULID) ([]*docs.Revision, error) {
	rows, err := querierFromCtx(ctx, r.pool).Query(ctx, `
		SELECT `+revisionColumns+`
		FROM revisions WHERE document_id = $1 ORDER BY number DESC
	`, documentID.String())
	if err != nil {
		return nil, oops.With("operation", "list revisions").With("document_id", documentID.String()).Wrap(err)
	}
	defer rows.Close()

	revisions := make([]*docs.Revision, 0)
	for rows.Next() {
		rev, err := scanRevisionRow(rows)
		if err != nil {
			return nil, oops.With("operation", "scan revision").Wrap(err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate revisions").Wrap(err)
	}
	return revisions, nil
}

// Delete removes a revision row.
func (r *RevisionRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM revisions WHERE id = $1`, id.String())
	if err != nil {
		return oops.With("operation", "delete revision").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("REVISION_NOT_FOUND").With("id", id.String()).Wrap(docs.ErrNotFound)
	}
	return nil
}

// scanRevisionRow scans a single revision from a row.
func scanRevisionRow(row pgx.Row) (*docs.Revision, error) {
	var rev docs.Revision
	var idStr, docStr, createdByStr string

	err := row.Scan(
		&idStr, &docStr, &rev.Number, &rev.Created, &createdByStr, &rev.CreatedByName,
		&rev.Type, &rev.SourceCode, &rev.PublicMetadata, &rev.PrivateMetadata,
	)
	if err != nil {
		return nil, err
	}

	if rev.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.With("operation", "parse revision id").With("id", idStr).Wrap(err)
	}
	if rev.DocumentID, err = ulid.Parse(docStr); err != nil {
		return nil, oops.With("operation", "parse document id").With("document_id", docStr).Wrap(err)
	}
	if rev.CreatedBy, err = ulid.Parse(createdByStr); err != nil {
		return nil, oops.With("operation", "parse created_by").With("created_by", createdByStr).Wrap(err)
	}
	return &rev, nil
}

// Compile-time interface check.
var _ docs.RevisionRepository = (*RevisionRepository)(nil)
