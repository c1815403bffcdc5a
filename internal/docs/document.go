// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

// Package docs contains the document lifecycle engine: versioned
// documents, revisions, the audit commit log, and derivation of domain
// events from state transitions.
package docs

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DocumentType is the enumerated document kind. It selects which event
// channel the document belongs to; changing it re-homes the document's
// published identity.
type DocumentType string

// Known document types. The engine treats the type as opaque beyond
// channel selection, so additional types need no code changes.
const (
	TypeDashboard DocumentType = "dashboard"
	TypeTemplate  DocumentType = "template"
)

// Document is a versioned document owned by a company.
//
// Deleted is set iff the document is archived; a physically deleted
// document has no row at all. PublishedRevisionID, when set, references
// a revision belonging to this document.
type Document struct {
	ID        ulid.ULID
	CompanyID ulid.ULID
	Type      DocumentType

	CreatedBy      ulid.ULID
	CreatedByName  string
	ModifiedBy     ulid.ULID
	ModifiedByName string
	Created        time.Time
	Modified       time.Time

	DeletedBy *ulid.ULID
	Deleted   *time.Time

	PublishedRevisionID *ulid.ULID

	// HubID and LinkedSurveyID are optional foreign references. Once
	// the document is published they carry an implicit view grant to
	// their owners, so writes referencing them require read access.
	HubID          *ulid.ULID
	LinkedSurveyID *ulid.ULID

	// Opaque payload, not interpreted by the engine.
	SourceCode      string
	PublicMetadata  string
	PrivateMetadata string
}

// Archived reports whether the document is soft-deleted.
func (d *Document) Archived() bool {
	return d.Deleted != nil
}

// Published reports whether the document has a published revision.
func (d *Document) Published() bool {
	return d.PublishedRevisionID != nil
}

// Revision is an immutable snapshot of a document's payload. Numbers
// increase monotonically per document starting at 1 and are never
// reused. Whether a revision is published is derived by comparing its
// id to the owning document's PublishedRevisionID, not stored.
type Revision struct {
	ID         ulid.ULID
	DocumentID ulid.ULID
	Number     int

	Created       time.Time
	CreatedBy     ulid.ULID
	CreatedByName string

	Type            DocumentType
	SourceCode      string
	PublicMetadata  string
	PrivateMetadata string
}

// CreateRequest carries the fields for a new document.
type CreateRequest struct {
	// CompanyID defaults to the acting principal's company when zero.
	CompanyID ulid.ULID
	Type      DocumentType

	HubID          *ulid.ULID
	LinkedSurveyID *ulid.ULID

	SourceCode      string
	PublicMetadata  string
	PrivateMetadata string
}

// PatchRequest is a partial document update. Nil pointers mean "field
// omitted, keep the previous value"; a pointer to an empty string means
// "explicitly set empty". The optional foreign references use Clear
// flags to express an explicit null distinctly from omission.
type PatchRequest struct {
	CompanyID *ulid.ULID
	Type      *DocumentType

	HubID    *ulid.ULID
	ClearHub bool

	LinkedSurveyID    *ulid.ULID
	ClearLinkedSurvey bool

	SourceCode      *string
	PublicMetadata  *string
	PrivateMetadata *string
}

// Empty reports whether the patch carries no changes at all.
func (p PatchRequest) Empty() bool {
	return p.CompanyID == nil && p.Type == nil &&
		p.HubID == nil && !p.ClearHub &&
		p.LinkedSurveyID == nil && !p.ClearLinkedSurvey &&
		p.SourceCode == nil && p.PublicMetadata == nil && p.PrivateMetadata == nil
}
