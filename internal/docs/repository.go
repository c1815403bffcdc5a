// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// DocumentRepository manages document persistence. Implementations
// wrap storage errors with the package taxonomy: ErrNotFound when no
// row matches, ErrInvalidState when a guarded state check fails.
type DocumentRepository interface {
	// Get retrieves a document in any state (active or archived).
	Get(ctx context.Context, id ulid.ULID) (*Document, error)

	// Create persists a new document.
	Create(ctx context.Context, doc *Document) error

	// Update rewrites a document's mutable fields. Fails with
	// ErrNotFound if the document is missing or archived.
	Update(ctx context.Context, doc *Document) error

	// Archive soft-deletes an active document. The archived/active
	// check and the write are a single atomic statement; returns
	// ErrInvalidState if the document is already archived.
	Archive(ctx context.Context, id ulid.ULID, by ulid.ULID, at time.Time) error

	// Restore clears the soft-delete marker on an archived document.
	// Returns ErrInvalidState if the document is not archived.
	Restore(ctx context.Context, id ulid.ULID) error

	// SetPublishedRevision atomically points the document at a revision
	// (or clears it when revisionID is nil). The statement verifies the
	// revision belongs to the document; a mismatch returns ErrConflict.
	SetPublishedRevision(ctx context.Context, documentID ulid.ULID, revisionID *ulid.ULID) error

	// ListArchivedBefore returns ids of documents archived at or before
	// the cutoff, for retention cleanup.
	ListArchivedBefore(ctx context.Context, cutoff time.Time) ([]ulid.ULID, error)

	// DeleteCascade physically removes an archived document and, in
	// order, its permission rows, selected-list markers, commits, and
	// revisions, all inside the ambient transaction. Returns
	// ErrInvalidState if the document is not archived.
	DeleteCascade(ctx context.Context, id ulid.ULID) error
}

// RevisionRepository manages revision persistence.
type RevisionRepository interface {
	// Get retrieves a revision by id.
	Get(ctx context.Context, id ulid.ULID) (*Revision, error)

	// Create persists a new revision, assigning the next number for its
	// document and filling rev.Number. A concurrent creation racing on
	// the same number returns ErrConflict; callers retry.
	Create(ctx context.Context, rev *Revision) error

	// ListByDocument returns all revisions of a document, newest number
	// first.
	ListByDocument(ctx context.Context, documentID ulid.ULID) ([]*Revision, error)

	// Delete removes a revision row.
	Delete(ctx context.Context, id ulid.ULID) error
}

// CommitRepository appends and reads the audit log.
type CommitRepository interface {
	// Append persists a commit inside the ambient transaction.
	Append(ctx context.Context, commit *Commit) error

	// ListByDocument returns a document's commits in append order.
	ListByDocument(ctx context.Context, documentID ulid.ULID) ([]*Commit, error)
}

// Transactor runs a function inside a storage transaction. Repository
// methods called with the returned context participate in it, so a
// mutation and its commit append land atomically.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock supplies the current time. Injected so transitions are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
