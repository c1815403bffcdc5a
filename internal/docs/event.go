// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Channel separates the two event streams derived from a transition.
type Channel string

const (
	// ChannelDocument carries events about the document itself.
	ChannelDocument Channel = "document"
	// ChannelRevision carries events about a published revision.
	ChannelRevision Channel = "revision"
)

// EventKind tags what happened from an external observer's view.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventUpdated   EventKind = "updated"
	EventDeleted   EventKind = "deleted"
	EventPublished EventKind = "published"
	EventDismissed EventKind = "dismissed"
)

// Event is one derived domain event, handed to the EventPublisher in
// derivation order.
type Event struct {
	Channel Channel
	Kind    EventKind
	// Type is the semantic stream the event belongs to. A type change
	// fires events on both the old and the new stream.
	Type      DocumentType
	CompanyID ulid.ULID
	ActorID   ulid.ULID
	// URN identifies the document or, on the revision channel, the
	// revision.
	URN string
	// PublishedRevisionURN is set on document-channel events while the
	// document has a published revision.
	PublishedRevisionURN string
}

// DocumentURN returns the stable identifier for a document on a given
// type stream.
func DocumentURN(t DocumentType, documentID ulid.ULID) string {
	return fmt.Sprintf("urn:dochub:%s:%s", t, documentID)
}

// RevisionURN returns the stable identifier for a revision.
func RevisionURN(t DocumentType, documentID, revisionID ulid.ULID) string {
	return fmt.Sprintf("urn:dochub:%s:%s:rev:%s", t, documentID, revisionID)
}
