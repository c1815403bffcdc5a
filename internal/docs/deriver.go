// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"github.com/oklog/ulid/v2"
)

// Snapshot captures the externally observable state of a document at
// one point in time. The engine takes a snapshot before and after each
// mutation; DeriveEvents diffs the pair.
//
// Exists is false both for a missing row and for an archived document:
// archival removes the document from external view while preserving it
// internally.
type Snapshot struct {
	Exists              bool
	DocumentID          ulid.ULID
	CompanyID           ulid.ULID
	Type                DocumentType
	PublishedRevisionID *ulid.ULID
	// Changed marks after-snapshots whose payload or metadata differs
	// from the before-snapshot in a way not already visible through the
	// other fields.
	Changed bool
}

// Published reports whether the snapshot has a published revision.
func (s Snapshot) Published() bool {
	return s.Exists && s.PublishedRevisionID != nil
}

// SnapshotOf captures a document's externally observable state.
// A nil document yields the absent snapshot.
func SnapshotOf(doc *Document) Snapshot {
	if doc == nil || doc.Archived() {
		return Snapshot{}
	}
	var published *ulid.ULID
	if doc.PublishedRevisionID != nil {
		id := *doc.PublishedRevisionID
		published = &id
	}
	return Snapshot{
		Exists:              true,
		DocumentID:          doc.ID,
		CompanyID:           doc.CompanyID,
		Type:                doc.Type,
		PublishedRevisionID: published,
	}
}

// DeriveEvents diffs two snapshots and produces the domain events the
// transition implies, in publish order. It is a pure function: every
// transition in the engine funnels through it, so event behavior is
// testable against arbitrary state pairs without storage or transport.
func DeriveEvents(before, after Snapshot, actor ulid.ULID) []Event {
	switch {
	case !before.Exists && !after.Exists:
		return nil
	case !before.Exists:
		return deriveAppeared(after, actor)
	case !after.Exists:
		return []Event{documentEvent(before, EventDeleted, actor)}
	case before.Type != after.Type:
		return deriveTypeChanged(before, after, actor)
	default:
		return deriveInPlace(before, after, actor)
	}
}

// deriveAppeared handles a document becoming externally visible:
// creation, or restore from the archive. A restore of a document that
// was published before archival re-announces both the document and its
// published revision.
func deriveAppeared(after Snapshot, actor ulid.ULID) []Event {
	events := []Event{documentEvent(after, EventCreated, actor)}
	if after.Published() {
		events = append(events,
			documentEvent(after, EventPublished, actor),
			revisionEvent(after, *after.PublishedRevisionID, EventPublished, actor),
		)
	}
	return events
}

// deriveTypeChanged translates a type change into a delete on the old
// semantic stream followed by a create on the new one. While published,
// the published identity is dismissed rather than deleted, and the
// still-current revision moves streams with it.
func deriveTypeChanged(before, after Snapshot, actor ulid.ULID) []Event {
	if before.Published() && after.Published() {
		return []Event{
			documentEvent(before, EventDismissed, actor),
			documentEvent(after, EventCreated, actor),
			revisionEvent(before, *before.PublishedRevisionID, EventDismissed, actor),
			revisionEvent(after, *after.PublishedRevisionID, EventPublished, actor),
		}
	}
	events := []Event{
		documentEvent(before, EventDeleted, actor),
		documentEvent(after, EventCreated, actor),
	}
	if after.Published() {
		events = append(events,
			documentEvent(after, EventPublished, actor),
			revisionEvent(after, *after.PublishedRevisionID, EventPublished, actor),
		)
	}
	return events
}

// deriveInPlace handles transitions that keep the document on the same
// stream: publish, unpublish, republish, and plain updates.
func deriveInPlace(before, after Snapshot, actor ulid.ULID) []Event {
	switch {
	case !before.Published() && after.Published():
		return []Event{
			documentEvent(after, EventPublished, actor),
			revisionEvent(after, *after.PublishedRevisionID, EventPublished, actor),
		}
	case before.Published() && !after.Published():
		return []Event{
			documentEvent(after, EventDismissed, actor),
			revisionEvent(before, *before.PublishedRevisionID, EventDismissed, actor),
		}
	case before.Published() && *before.PublishedRevisionID != *after.PublishedRevisionID:
		// Republish under a new revision: the document stays visible,
		// its content rolls over.
		return []Event{
			documentEvent(after, EventUpdated, actor),
			revisionEvent(before, *before.PublishedRevisionID, EventDismissed, actor),
			revisionEvent(after, *after.PublishedRevisionID, EventPublished, actor),
		}
	case after.Changed:
		return []Event{documentEvent(after, EventUpdated, actor)}
	default:
		return nil
	}
}

func documentEvent(s Snapshot, kind EventKind, actor ulid.ULID) Event {
	ev := Event{
		Channel:   ChannelDocument,
		Kind:      kind,
		Type:      s.Type,
		CompanyID: s.CompanyID,
		ActorID:   actor,
		URN:       DocumentURN(s.Type, s.DocumentID),
	}
	if s.Published() {
		ev.PublishedRevisionURN = RevisionURN(s.Type, s.DocumentID, *s.PublishedRevisionID)
	}
	return ev
}

func revisionEvent(s Snapshot, revisionID ulid.ULID, kind EventKind, actor ulid.ULID) Event {
	return Event{
		Channel:   ChannelRevision,
		Kind:      kind,
		Type:      s.Type,
		CompanyID: s.CompanyID,
		ActorID:   actor,
		URN:       RevisionURN(s.Type, s.DocumentID, revisionID),
	}
}
