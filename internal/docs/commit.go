// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// CommitAction labels the lifecycle transition a commit records.
type CommitAction string

// Commit actions. One commit is appended per successful mutating
// transition; read-only operations and failed transitions append
// nothing.
const (
	ActionCreate    CommitAction = "create"
	ActionUpdate    CommitAction = "update"
	ActionPublish   CommitAction = "publish"
	ActionUnpublish CommitAction = "unpublish"
	ActionDelete    CommitAction = "delete"
	ActionRestore   CommitAction = "restore"
)

// Commit is one immutable audit record. Commits are append-only and
// ordered by ID; that order, not the wall-clock timestamp, is the
// source of truth for a document's action history.
//
// RevisionID is nil for Delete and Restore actions. RevisionNumber
// mirrors the revision's number and survives deletion of the revision
// row itself.
type Commit struct {
	ID             ulid.ULID
	DocumentID     ulid.ULID
	RevisionID     *ulid.ULID
	RevisionNumber *int
	Action         CommitAction
	CreatedBy      ulid.ULID
	CreatedByName  string
	Created        time.Time
}
