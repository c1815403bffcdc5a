// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package access

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Grant is one permission row: a subject's level on a document.
// Which relation the subject belongs to is determined by the store
// method used to read or write it.
type Grant struct {
	DocumentID ulid.ULID
	SubjectID  ulid.ULID
	Level      Level
}

// PermissionStore reads and writes the four grant relations plus the
// selected end-user list markers.
//
// Absence of a row and LevelNone are equivalent: lookups return
// LevelNone when no row exists, and writing LevelNone deletes the row.
// At most one row exists per (document, subject) per relation.
type PermissionStore interface {
	// UserLevel returns the individual user grant, LevelNone if absent.
	UserLevel(ctx context.Context, documentID, userID ulid.ULID) (Level, error)

	// CompanyLevel returns the whole-company grant, LevelNone if absent.
	CompanyLevel(ctx context.Context, documentID, companyID ulid.ULID) (Level, error)

	// EnduserLevel returns the individual end-user grant, LevelNone if absent.
	EnduserLevel(ctx context.Context, documentID, enduserID ulid.ULID) (Level, error)

	// EnduserListLevel returns the whole-list grant, LevelNone if absent.
	EnduserListLevel(ctx context.Context, documentID, listID ulid.ULID) (Level, error)

	// SetUserLevel upserts the individual user grant.
	SetUserLevel(ctx context.Context, documentID, userID ulid.ULID, level Level) error

	// SetCompanyLevel upserts the whole-company grant.
	SetCompanyLevel(ctx context.Context, documentID, companyID ulid.ULID, level Level) error

	// SetEnduserLevel upserts the individual end-user grant and marks
	// the end-user's list as selected for the document. The marker is
	// written even when level is LevelNone.
	SetEnduserLevel(ctx context.Context, documentID, enduserID, listID ulid.ULID, level Level) error

	// SetEnduserListLevel upserts the whole-list grant and marks the
	// list as selected for the document. The marker is written even
	// when level is LevelNone.
	SetEnduserListLevel(ctx context.Context, documentID, listID ulid.ULID, level Level) error

	// UserGrants lists all individual user grants on a document.
	UserGrants(ctx context.Context, documentID ulid.ULID) ([]Grant, error)

	// CompanyGrants lists all company grants on a document.
	CompanyGrants(ctx context.Context, documentID ulid.ULID) ([]Grant, error)

	// EnduserGrants lists all individual end-user grants on a document.
	EnduserGrants(ctx context.Context, documentID ulid.ULID) ([]Grant, error)

	// EnduserListGrants lists all whole-list grants on a document.
	EnduserListGrants(ctx context.Context, documentID ulid.ULID) ([]Grant, error)

	// SelectedLists returns the ids of lists marked relevant for the
	// document, regardless of current grant values.
	SelectedLists(ctx context.Context, documentID ulid.ULID) ([]ulid.ULID, error)

	// RemoveSelectedList explicitly removes a selected-list marker.
	// Markers are never removed implicitly by grant writes.
	RemoveSelectedList(ctx context.Context, documentID, listID ulid.ULID) error
}
