// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package postgres

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/docs"
)

// CommitRepository implements docs.CommitRepository using PostgreSQL.
// The table is append-only; rows are never updated or deleted except
// through the document's physical-delete cascade.
type CommitRepository struct {
	pool poolIface
}

// NewCommitRepository creates a new CommitRepository.
func NewCommitRepository(pool poolIface) *CommitRepository {
	return &CommitRepository{pool: pool}
}

// Append persists a commit inside the ambient transaction.
func (r *CommitRepository) Append(ctx context.Context, commit *docs.Commit) error {
	_, err := querierFromCtx(ctx, r.pool).Exec(ctx, `
		INSERT INTO commits (id, document_id, revision_id, revision_number, action,
			created_by, created_by_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, commit.ID.String(), commit.DocumentID.String(),
		ulidToStringPtr(commit.RevisionID), commit.RevisionNumber, string(commit.Action),
		commit.CreatedBy.String(), commit.CreatedByName, commit.Created)
	if err != nil {
		return oops.With("operation", "append commit").With("id", commit.ID.String()).Wrap(err)
	}
	return nil
}

// ListByDocument returns a document's commits ordered by id, which is
// append order since commit ids are monotonic.
func (r *CommitRepository) ListByDocument(ctx context.Context, documentID ulid.ULID) ([]*docs.Commit, error) {
	rows, err := querierFromCtx(ctx, r.pool).Query(ctx, `
		SELECT id, document_id, revision_id, revision_number, action,
			created_by, created_by_name, created_at
		FROM commits WHERE document_id = $1 ORDER BY id
	`, documentID.String())
	if err != nil {
		return nil, oops.With("operation", "list commits").With("document_id", documentID.String()).Wrap(err)
	}
	defer rows.Close()

	commits := make([]*docs.Commit, 0)
	for rows.Next() {
		var commit docs.Commit
		var idStr, docStr, createdByStr string
		var revStr *string

		if err := rows.Scan(
			&idStr, &docStr, &revStr, &commit.RevisionNumber, &commit.Action,
			&createdByStr, &commit.CreatedByName, &commit.Created,
		); err != nil {
			return nil, oops.With("operation", "scan commit").Wrap(err)
		}

		if commit.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.With("operation", "parse commit id").With("id", idStr).Wrap(err)
		}
		if commit.DocumentID, err = ulid.Parse(docStr); err != nil {
			return nil, oops.With("operation", "parse document id").With("document_id", docStr).Wrap(err)
		}
		if commit.RevisionID, err = parseOptionalULID(revStr, "revision_id"); err != nil {
			return nil, err
		}
		if commit.CreatedBy, err = ulid.Parse(createdByStr); err != nil {
			return nil, oops.With("operation", "parse created_by").With("created_by", createdByStr).Wrap(err)
		}
		commits = append(commits, &commit)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate commits").Wrap(err)
	}
	return commits, nil
}

// Compile-time interface check.
var _ docs.CommitRepository = (*CommitRepository)(nil)
