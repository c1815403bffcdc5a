// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/docs"
)

const documentColumns = `id, company_id, type, created_by, created_by_name,
	modified_by, modified_by_name, created_at, modified_at,
	deleted_by, deleted_at, published_revision_id, hub_id, linked_survey_id,
	source_code, public_metadata, private_metadata`

// DocumentRepository implements docs.DocumentRepository using PostgreSQL.
type DocumentRepository struct {
	pool poolIface
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool poolIface) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Get retrieves a document by id, archived or not.
func (r *DocumentRepository) Get(ctx context.Context, id ulid.ULID) (*docs.Document, error) {
	row := querierFromCtx(ctx, r.pool).QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE id = $1
	`, id.String())
	doc, err := scanDocumentRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("DOC_NOT_FOUND").With("id", id.String()).Wrap(docs.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get document").With("id", id.String()).Wrap(err)
	}
	return doc, nil
}

// Create persists a new document.
func (r *DocumentRepository) Create(ctx context.Context, doc *docs.Document) error {
	_, err := querierFromCtx(ctx, r.pool).Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, doc.ID.String(), doc.CompanyID.String(), string(doc.Type),
		doc.CreatedBy.String(), doc.CreatedByName,
		doc.ModifiedBy.String(), doc.ModifiedByName,
		doc.Created, doc.Modified,
		ulidToStringPtr(doc.DeletedBy), doc.Deleted,
		ulidToStringPtr(doc.PublishedRevisionID),
		ulidToStringPtr(doc.HubID), ulidToStringPtr(doc.LinkedSurveyID),
		doc.SourceCode, doc.PublicMetadata, doc.PrivateMetadata)
	if err != nil {
		return oops.With("operation", "create document").With("id", doc.ID.String()).Wrap(err)
	}
	return nil
}

// Update rewrites a document's mutable fields. Archived documents are
// not updatable through this path.
func (r *DocumentRepository) Update(ctx context.Context, doc *docs.Document) error {
	result, err := querierFromCtx(ctx, r.pool).Exec(ctx, `
		UPDATE documents SET company_id = $2, type = $3,
			modified_by = $4, modified_by_name = $5, modified_at = $6,
			hub_id = $7, linked_survey_id = $8,
			source_code = $9, public_metadata = $10, private_metadata = $11
		WHERE id = $1 AND deleted_at IS NULL
	`, doc.ID.String(), doc.CompanyID.String(), string(doc.Type),
		doc.ModifiedBy.String(), doc.ModifiedByName, doc.Modified,
		ulidToStringPtr(doc.HubID), ulidToStringPtr(doc.LinkedSurveyID),
		doc.SourceCode, doc.PublicMetadata, doc.PrivateMetadata)
	if err != nil {
		return oops.With("operation", "update document").With("id", doc.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("DOC_NOT_FOUND").With("id", doc.ID.String()).Wrap(docs.ErrNotFound)
	}
	return nil
}

// Archive soft-deletes an active document. The state check and the
// write are one atomic statement.
func (r *DocumentRepository) Archive(ctx context.Context, id ulid.ULID, by ulid.ULID, at time.Time) error {
	result, err := querierFromCtx(ctx, r.pool).Exec(ctx, `
		UPDATE documents SET deleted_at = $3, deleted_by = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String(), by.String(), at)
	if err != nil {
		return oops.With("operation", "archive document").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("DOC_NOT_ACTIVE").With("id", id.String()).Wrap(docs.ErrInvalidState)
	}
	return nil
}

// Restore clears the soft-delete marker. PublishedRevisionID was never
// touched by archival, so the document comes back in its pre-delete
// published state.
func (r *DocumentRepository) Restore(ctx context.Context, id ulid.ULID) error {
	result, err := querierFromCtx(ctx, r.pool).Exec(ctx, `
		UPDATE documents SET deleted_at = NULL, deleted_by = NULL
		WHERE id = $1 AND deleted_at IS NOT NULL
	`, id.String())
	if err != nil {
		return oops.With("operation", "restore document").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("DOC_NOT_ARCHIVED").With("id", id.String()).Wrap(docs.ErrInvalidState)
	}
	return nil
}

// SetPublishedRevision atomically points the document at a revision or
// clears the pointer. The statement itself verifies the revision
// belongs to the document, so a racing delete or a foreign revision id
// cannot slip through between check and write.
func (r *DocumentRepository) SetPublishedRevision(ctx context.Context, documentID ulid.ULID, revisionID *ulid.ULID) error {
	q := querierFromCtx(ctx, r.pool)

	if revisionID == nil {
		result, err := q.Exec(ctx, `
			UPDATE documents SET published_revision_id = NULL
			WHERE id = $1 AND deleted_at IS NULL
		`, documentID.String())
		if err != nil {
			return oops.With("operation", "clear published revision").With("id", documentID.String()).Wrap(err)
		}
		if result.RowsAffected() == 0 {
			return oops.Code("DOC_NOT_FOUND").With("id", documentID.String()).Wrap(docs.ErrNotFound)
		}
		return nil
	}

	result, err := q.Exec(ctx, `
		UPDATE documents SET published_revision_id = $2
		WHERE id = $1 AND deleted_at IS NULL
		  AND EXISTS (SELECT 1 FROM revisions WHERE id = $2 AND document_id = $1)
	`, documentID.String(), revisionID.String())
	if err != nil {
		return oops.With("operation", "set published revision").With("id", documentID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PUBLISH_CONFLICT").
			With("id", documentID.String()).
			With("revision_id", revisionID.String()).
			Wrap(docs.ErrConflict)
	}
	return nil
}

// ListArchivedBefore returns ids of documents archived at or before
// the cutoff.
func (r *DocumentRepository) ListArchivedBefore(ctx context.Context, cutoff time.Time) ([]ulid.ULID, error) {
	rows, err := querierFromCtx(ctx, r.pool).Query(ctx, `
		SELECT id FROM documents WHERE deleted_at IS NOT NULL AND deleted_at <= $1
		ORDER BY deleted_at
	`, cutoff)
	if err != nil {
		return nil, oops.With("operation", "list archived documents").Wrap(err)
	}
	defer rows.Close()

	ids := make([]ulid.ULID, 0)
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, oops.With("operation", "scan archived document id").Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.With("operation", "parse document id").With("id", idStr).Wrap(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate archived documents").Wrap(err)
	}
	return ids, nil
}

// DeleteCascade physically removes an archived document and all
// dependent rows. The cascade is an explicit ordered list rather than
// trigger magic, so it is reproducible and testable; callers run it
// inside a transaction. The archived check takes a row lock so a
// concurrent restore cannot commit between the check and the cascade.
func (r *DocumentRepository) DeleteCascade(ctx context.Context, id ulid.ULID) error {
	q := querierFromCtx(ctx, r.pool)
	idStr := id.String()

	var archived bool
	err := q.QueryRow(ctx, `SELECT deleted_at IS NOT NULL FROM documents WHERE id = $1 FOR UPDATE`, idStr).Scan(&archived)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("DOC_NOT_FOUND").With("id", idStr).Wrap(docs.ErrNotFound)
	}
	if err != nil {
		return oops.With("operation", "check document state").With("id", idStr).Wrap(err)
	}
	if !archived {
		return oops.Code("DOC_NOT_ARCHIVED").With("id", idStr).Wrap(docs.ErrInvalidState)
	}

	cascade := []string{
		`DELETE FROM document_aliases WHERE document_id = $1`,
		`DELETE FROM user_permissions WHERE document_id = $1`,
		`DELETE FROM company_permissions WHERE document_id = $1`,
		`DELETE FROM enduser_permissions WHERE document_id = $1`,
		`DELETE FROM enduser_list_permissions WHERE document_id = $1`,
		`DELETE FROM selected_enduser_lists WHERE document_id = $1`,
		`DELETE FROM commits WHERE document_id = $1`,
		`DELETE FROM revisions WHERE document_id = $1`,
		`DELETE FROM documents WHERE id = $1`,
	}
	for _, stmt := range cascade {
		if _, err := q.Exec(ctx, stmt, idStr); err != nil {
			return oops.With("operation", "cascade delete document").With("id", idStr).Wrap(err)
		}
	}
	return nil
}

// scanDocumentRow scans a single document row.
func scanDocumentRow(row pgx.Row) (*docs.Document, error) {
	var doc docs.Document
	var idStr, companyStr, createdByStr, modifiedByStr string
	var deletedByStr, publishedStr, hubStr, surveyStr *string

	err := row.Scan(
		&idStr, &companyStr, &doc.Type, &createdByStr, &doc.CreatedByName,
		&modifiedByStr, &doc.ModifiedByName, &doc.Created, &doc.Modified,
		&deletedByStr, &doc.Deleted, &publishedStr, &hubStr, &surveyStr,
		&doc.SourceCode, &doc.PublicMetadata, &doc.PrivateMetadata,
	)
	if err != nil {
		return nil, err
	}

	if doc.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.With("operation", "parse document id").With("id", idStr).Wrap(err)
	}
	if doc.CompanyID, err = ulid.Parse(companyStr); err != nil {
		return nil, oops.With("operation", "parse company id").With("company_id", companyStr).Wrap(err)
	}
	if doc.CreatedBy, err = ulid.Parse(createdByStr); err != nil {
		return nil, oops.With("operation", "parse created_by").With("created_by", createdByStr).Wrap(err)
	}
	if doc.ModifiedBy, err = ulid.Parse(modifiedByStr); err != nil {
		return nil, oops.With("operation", "parse modified_by").With("modified_by", modifiedByStr).Wrap(err)
	}
	if doc.DeletedBy, err = parseOptionalULID(deletedByStr, "deleted_by"); err != nil {
		return nil, err
	}
	if doc.PublishedRevisionID, err = parseOptionalULID(publishedStr, "published_revision_id"); err != nil {
		return nil, err
	}
	if doc.HubID, err = parseOptionalULID(hubStr, "hub_id"); err != nil {
		return nil, err
	}
	if doc.LinkedSurveyID, err = parseOptionalULID(surveyStr, "linked_survey_id"); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Compile-time interface check.
var _ docs.DocumentRepository = (*DocumentRepository)(nil)
