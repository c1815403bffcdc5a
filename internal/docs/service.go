// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/dochub/dochub/internal/access"
	"github.com/dochub/dochub/pkg/errutil"
)

// RevisionAction selects how CreateRevision treats the new revision.
type RevisionAction uint8

const (
	// RevisionPublish creates the revision and makes it the published
	// one (the default creation action).
	RevisionPublish RevisionAction = iota
	// RevisionSnapshot creates the revision without touching the
	// document's published state.
	RevisionSnapshot
)

// revisionCreateAttempts bounds retries of the revision-number race.
const revisionCreateAttempts = 3

// ServiceConfig holds dependencies for the lifecycle Service.
type ServiceConfig struct {
	Documents   DocumentRepository
	Revisions   RevisionRepository
	Commits     CommitRepository
	Permissions access.PermissionStore
	Resolver    AccessResolver
	External    ExternalAccessChecker
	Publisher   EventPublisher
	Transactor  Transactor
	Clock       Clock
	Logger      *slog.Logger
}

// Service orchestrates document and revision state transitions.
//
// Every mutating operation authorizes through the resolver, captures a
// before snapshot, applies the repository mutation together with its
// audit commit in one transaction, captures an after snapshot, and
// publishes the events the snapshot diff implies. Read operations only
// consult the resolver.
type Service struct {
	documents  DocumentRepository
	revisions  RevisionRepository
	commits    CommitRepository
	perms      access.PermissionStore
	resolver   AccessResolver
	external   ExternalAccessChecker
	publisher  EventPublisher
	transactor Transactor
	clock      Clock
	logger     *slog.Logger
}

// NewService creates a Service with the given configuration.
// Clock defaults to the system clock and Logger to slog.Default.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		documents:  cfg.Documents,
		revisions:  cfg.Revisions,
		commits:    cfg.Commits,
		perms:      cfg.Permissions,
		resolver:   cfg.Resolver,
		external:   cfg.External,
		publisher:  cfg.Publisher,
		transactor: cfg.Transactor,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
	}
}

// Resolve reports the principal's effective level on a document.
func (s *Service) Resolve(ctx context.Context, p access.Principal, documentID ulid.ULID, status access.ResourceStatus) (access.Level, error) {
	return s.resolver.Resolve(ctx, p, documentID, status)
}

// authorize resolves the principal's level and maps it onto the
// failure taxonomy: None is indistinguishable from not-found, a level
// below required is forbidden. Runs strictly before any store write.
func (s *Service) authorize(ctx context.Context, p access.Principal, documentID ulid.ULID, status access.ResourceStatus, required access.Level) error {
	level, err := s.resolver.Resolve(ctx, p, documentID, status)
	if err != nil {
		return err
	}
	if level == access.LevelNone {
		return oops.Code("DOC_NOT_FOUND").With("document_id", documentID.String()).Wrap(ErrNotFound)
	}
	if !level.AtLeast(required) {
		return oops.Code("ACCESS_DENIED").
			With("document_id", documentID.String()).
			With("required", required.String()).
			With("level", level.String()).
			Wrap(ErrForbidden)
	}
	return nil
}

// Create produces a new document. Creation rights are not per-document
// (the document does not exist yet): any principal except an end-user
// may create. References to a hub or linked survey require independent
// read access to the target.
func (s *Service) Create(ctx context.Context, p access.Principal, req CreateRequest) (doc *Document, err error) {
	defer func() { recordTransition("create", err) }()

	if p.Kind == access.KindEndUser {
		return nil, oops.Code("ACCESS_DENIED").Wrap(ErrForbidden)
	}
	if req.HubID != nil {
		if err := s.checkHub(ctx, p, *req.HubID); err != nil {
			return nil, err
		}
	}
	if req.LinkedSurveyID != nil {
		if err := s.checkSurvey(ctx, p, *req.LinkedSurveyID); err != nil {
			return nil, err
		}
	}

	companyID := req.CompanyID
	if companyID == (ulid.ULID{}) {
		companyID = p.CompanyID
	}

	now := s.clock.Now()
	doc = &Document{
		ID:              NewULID(),
		CompanyID:       companyID,
		Type:            req.Type,
		CreatedBy:       p.ID,
		CreatedByName:   p.Name,
		ModifiedBy:      p.ID,
		ModifiedByName:  p.Name,
		Created:         now,
		Modified:        now,
		HubID:           req.HubID,
		LinkedSurveyID:  req.LinkedSurveyID,
		SourceCode:      req.SourceCode,
		PublicMetadata:  req.PublicMetadata,
		PrivateMetadata: req.PrivateMetadata,
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.documents.Create(ctx, doc); err != nil {
			return err
		}
		return s.commits.Append(ctx, s.newCommit(doc.ID, nil, ActionCreate, p, now))
	})
	if err != nil {
		return nil, oops.Code("CREATE_FAILED").With("document_id", doc.ID.String()).Wrap(err)
	}

	s.publishEvents(ctx, DeriveEvents(Snapshot{}, SnapshotOf(doc), p.ID))
	return doc, nil
}

// Get retrieves an active document readable by the principal.
func (s *Service) Get(ctx context.Context, p access.Principal, id ulid.ULID) (*Document, error) {
	if err := s.authorize(ctx, p, id, access.StatusExists, access.LevelView); err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, oops.Code("GET_FAILED").With("document_id", id.String()).Wrap(err)
	}
	return doc, nil
}

// Patch applies a partial update. Omitted fields keep their previous
// values; explicitly empty values are applied. A patch that changes
// nothing appends no commit and fires no events. Moving the document to
// another company, hub, or survey requires read access to the target.
func (s *Service) Patch(ctx context.Context, p access.Principal, id ulid.ULID, patch PatchRequest) (doc *Document, err error) {
	defer func() { recordTransition("patch", err) }()

	if err := s.authorize(ctx, p, id, access.StatusExists, access.LevelManage); err != nil {
		return nil, err
	}
	doc, err = s.documents.Get(ctx, id)
	if err != nil {
		return nil, oops.Code("PATCH_FAILED").With("document_id", id.String()).Wrap(err)
	}
	if patch.Empty() {
		return doc, nil
	}

	before := SnapshotOf(doc)
	changed, err := s.applyPatch(ctx, p, doc, patch)
	if err != nil {
		return nil, err
	}
	if !changed {
		return doc, nil
	}

	now := s.clock.Now()
	doc.Modified = now
	doc.ModifiedBy = p.ID
	doc.ModifiedByName = p.Name

	commit := s.newCommit(doc.ID, nil, ActionUpdate, p, now)
	if doc.PublishedRevisionID != nil {
		if rev, revErr := s.revisions.Get(ctx, *doc.PublishedRevisionID); revErr == nil {
			commit.RevisionID = &rev.ID
			commit.RevisionNumber = &rev.Number
		}
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.documents.Update(ctx, doc); err != nil {
			return err
		}
		return s.commits.Append(ctx, commit)
	})
	if err != nil {
		return nil, oops.Code("PATCH_FAILED").With("document_id", id.String()).Wrap(err)
	}

	after := SnapshotOf(doc)
	after.Changed = true
	s.publishEvents(ctx, DeriveEvents(before, after, p.ID))
	return doc, nil
}

// applyPatch copies present patch fields onto the document, checking
// external read access for newly referenced resources. Reports whether
// anything actually changed.
func (s *Service) applyPatch(ctx context.Context, p access.Principal, doc *Document, patch PatchRequest) (bool, error) {
	changed := false

	if patch.CompanyID != nil && *patch.CompanyID != doc.CompanyID {
		if err := s.checkCompany(ctx, p, *patch.CompanyID); err != nil {
			return false, err
		}
		doc.CompanyID = *patch.CompanyID
		changed = true
	}
	if patch.Type != nil && *patch.Type != doc.Type {
		doc.Type = *patch.Type
		changed = true
	}

	switch {
	case patch.ClearHub:
		if doc.HubID != nil {
			doc.HubID = nil
			changed = true
		}
	case patch.HubID != nil && (doc.HubID == nil || *doc.HubID != *patch.HubID):
		if err := s.checkHub(ctx, p, *patch.HubID); err != nil {
			return false, err
		}
		doc.HubID = patch.HubID
		changed = true
	}

	switch {
	case patch.ClearLinkedSurvey:
		if doc.LinkedSurveyID != nil {
			doc.LinkedSurveyID = nil
			changed = true
		}
	case patch.LinkedSurveyID != nil && (doc.LinkedSurveyID == nil || *doc.LinkedSurveyID != *patch.LinkedSurveyID):
		if err := s.checkSurvey(ctx, p, *patch.LinkedSurveyID); err != nil {
			return false, err
		}
		doc.LinkedSurveyID = patch.LinkedSurveyID
		changed = true
	}

	applyString(&doc.SourceCode, patch.SourceCode, &changed)
	applyString(&doc.PublicMetadata, patch.PublicMetadata, &changed)
	applyString(&doc.PrivateMetadata, patch.PrivateMetadata, &changed)

	return changed, nil
}

func applyString(field *string, value *string, changed *bool) {
	if value != nil && *value != *field {
		*field = *value
		*changed = true
	}
}

// CreateRevision snapshots the document's current payload into a new
// revision. With RevisionPublish the new revision becomes the
// published one, which requires read access to a referenced hub or
// survey: publishing implicitly shares them with every future viewer.
//
// Numbering races with concurrent creations are retried a bounded
// number of times; the store's uniqueness guarantee keeps numbers
// gap-free and unique.
func (s *Service) CreateRevision(ctx context.Context, p access.Principal, documentID ulid.ULID, action RevisionAction) (rev *Revision, err error) {
	defer func() { recordTransition("create_revision", err) }()

	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, oops.Code("CREATE_REVISION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	if action == RevisionPublish {
		if doc.HubID != nil {
			if err := s.checkHub(ctx, p, *doc.HubID); err != nil {
				return nil, err
			}
		}
		if doc.LinkedSurveyID != nil {
			if err := s.checkSurvey(ctx, p, *doc.LinkedSurveyID); err != nil {
				return nil, err
			}
		}
	}

	before := SnapshotOf(doc)
	now := s.clock.Now()
	rev = &Revision{
		ID:              NewULID(),
		DocumentID:      documentID,
		Created:         now,
		CreatedBy:       p.ID,
		CreatedByName:   p.Name,
		Type:            doc.Type,
		SourceCode:      doc.SourceCode,
		PublicMetadata:  doc.PublicMetadata,
		PrivateMetadata: doc.PrivateMetadata,
	}

	backoff := retry.WithMaxRetries(revisionCreateAttempts, retry.NewExponential(10*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		txErr := s.transactor.InTransaction(ctx, func(ctx context.Context) error {
			if err := s.revisions.Create(ctx, rev); err != nil {
				return err
			}
			commitAction := ActionUpdate
			if action == RevisionPublish {
				if err := s.documents.SetPublishedRevision(ctx, documentID, &rev.ID); err != nil {
					return err
				}
				commitAction = ActionPublish
			}
			commit := s.newCommit(documentID, rev, commitAction, p, now)
			return s.commits.Append(ctx, commit)
		})
		if errors.Is(txErr, ErrConflict) {
			return retry.RetryableError(txErr)
		}
		return txErr
	})
	if err != nil {
		return nil, oops.Code("CREATE_REVISION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}

	if action == RevisionPublish {
		doc.PublishedRevisionID = &rev.ID
	}
	s.publishEvents(ctx, DeriveEvents(before, SnapshotOf(doc), p.ID))
	return rev, nil
}

// Publish designates an existing revision as the document's published
// one. A revision id that belongs to a different document resolves to
// not-found, never to a validation error.
func (s *Service) Publish(ctx context.Context, p access.Principal, documentID, revisionID ulid.ULID) (doc *Document, err error) {
	defer func() { recordTransition("publish", err) }()

	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return nil, err
	}
	doc, err = s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, oops.Code("PUBLISH_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	rev, err := s.ownedRevision(ctx, documentID, revisionID)
	if err != nil {
		return nil, err
	}
	if doc.PublishedRevisionID != nil && *doc.PublishedRevisionID == revisionID {
		return doc, nil
	}

	before := SnapshotOf(doc)
	now := s.clock.Now()
	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.documents.SetPublishedRevision(ctx, documentID, &revisionID); err != nil {
			return err
		}
		return s.commits.Append(ctx, s.newCommit(documentID, rev, ActionPublish, p, now))
	})
	if err != nil {
		return nil, oops.Code("PUBLISH_FAILED").With("document_id", documentID.String()).Wrap(err)
	}

	doc.PublishedRevisionID = &revisionID
	s.publishEvents(ctx, DeriveEvents(before, SnapshotOf(doc), p.ID))
	return doc, nil
}

// Unpublish clears the published revision without touching revision
// rows. Unpublishing an already-unpublished document changes nothing
// and appends no commit.
func (s *Service) Unpublish(ctx context.Context, p access.Principal, documentID ulid.ULID) (doc *Document, err error) {
	defer func() { recordTransition("unpublish", err) }()

	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return nil, err
	}
	doc, err = s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, oops.Code("UNPUBLISH_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	if doc.PublishedRevisionID == nil {
		return doc, nil
	}

	before := SnapshotOf(doc)
	now := s.clock.Now()
	commit := s.newCommit(documentID, nil, ActionUnpublish, p, now)
	if rev, revErr := s.revisions.Get(ctx, *doc.PublishedRevisionID); revErr == nil {
		commit.RevisionID = &rev.ID
		commit.RevisionNumber = &rev.Number
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.documents.SetPublishedRevision(ctx, documentID, nil); err != nil {
			return err
		}
		return s.commits.Append(ctx, commit)
	})
	if err != nil {
		return nil, oops.Code("UNPUBLISH_FAILED").With("document_id", documentID.String()).Wrap(err)
	}

	doc.PublishedRevisionID = nil
	s.publishEvents(ctx, DeriveEvents(before, SnapshotOf(doc), p.ID))
	return doc, nil
}

// DeleteRevision removes a revision row. Deleting the currently
// published revision implicitly unpublishes the document as part of
// the same transition.
func (s *Service) DeleteRevision(ctx context.Context, p access.Principal, documentID, revisionID ulid.ULID) (err error) {
	defer func() { recordTransition("delete_revision", err) }()

	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return err
	}
	rev, err := s.ownedRevision(ctx, documentID, revisionID)
	if err != nil {
		return err
	}
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return oops.Code("DELETE_REVISION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}

	wasPublished := doc.PublishedRevisionID != nil && *doc.PublishedRevisionID == revisionID
	before := SnapshotOf(doc)
	now := s.clock.Now()
	action := ActionUpdate
	if wasPublished {
		action = ActionUnpublish
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if wasPublished {
			if err := s.documents.SetPublishedRevision(ctx, documentID, nil); err != nil {
				return err
			}
		}
		if err := s.revisions.Delete(ctx, revisionID); err != nil {
			return err
		}
		return s.commits.Append(ctx, s.newCommit(documentID, rev, action, p, now))
	})
	if err != nil {
		return oops.Code("DELETE_REVISION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}

	if wasPublished {
		doc.PublishedRevisionID = nil
	}
	s.publishEvents(ctx, DeriveEvents(before, SnapshotOf(doc), p.ID))
	return nil
}

// Delete archives a document. Revisions, grants, commits, and the
// published-revision pointer stay intact for a later Restore.
func (s *Service) Delete(ctx context.Context, p access.Principal, id ulid.ULID) (err error) {
	defer func() { recordTransition("delete", err) }()

	if err := s.authorize(ctx, p, id, access.StatusExists, access.LevelManage); err != nil {
		return err
	}
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return oops.Code("DELETE_FAILED").With("document_id", id.String()).Wrap(err)
	}

	before := SnapshotOf(doc)
	now := s.clock.Now()
	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.documents.Archive(ctx, id, p.ID, now); err != nil {
			return err
		}
		return s.commits.Append(ctx, s.newCommit(id, nil, ActionDelete, p, now))
	})
	if err != nil {
		return oops.Code("DELETE_FAILED").With("document_id", id.String()).Wrap(err)
	}

	s.publishEvents(ctx, DeriveEvents(before, Snapshot{}, p.ID))
	return nil
}

// Restore brings an archived document back, in the same published or
// unpublished state it had when archived.
func (s *Service) Restore(ctx context.Context, p access.Principal, id ulid.ULID) (doc *Document, err error) {
	defer func() { recordTransition("restore", err) }()

	if err := s.authorize(ctx, p, id, access.StatusArchived, access.LevelManage); err != nil {
		return nil, err
	}
	doc, err = s.documents.Get(ctx, id)
	if err != nil {
		return nil, oops.Code("RESTORE_FAILED").With("document_id", id.String()).Wrap(err)
	}

	now := s.clock.Now()
	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.documents.Restore(ctx, id); err != nil {
			return err
		}
		return s.commits.Append(ctx, s.newCommit(id, nil, ActionRestore, p, now))
	})
	if err != nil {
		return nil, oops.Code("RESTORE_FAILED").With("document_id", id.String()).Wrap(err)
	}

	doc.Deleted = nil
	doc.DeletedBy = nil
	s.publishEvents(ctx, DeriveEvents(Snapshot{}, SnapshotOf(doc), p.ID))
	return doc, nil
}

// PhysicalDelete irreversibly removes an archived document and
// everything attached to it. The document was already externally
// absent while archived, so no events fire and no commit survives.
func (s *Service) PhysicalDelete(ctx context.Context, p access.Principal, id ulid.ULID) (err error) {
	defer func() { recordTransition("physical_delete", err) }()

	if err := s.authorize(ctx, p, id, access.StatusArchived, access.LevelManage); err != nil {
		return err
	}
	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		return s.documents.DeleteCascade(ctx, id)
	})
	if err != nil {
		return oops.Code("PHYSICAL_DELETE_FAILED").With("document_id", id.String()).Wrap(err)
	}
	return nil
}

// Cleanup physically deletes documents archived longer ago than the
// retention duration and returns how many were removed. It is a system
// operation with no acting principal; a document restored between the
// scan and its delete is skipped via the per-document archived check.
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := s.clock.Now().Add(-retention)
	ids, err := s.documents.ListArchivedBefore(ctx, cutoff)
	if err != nil {
		return 0, oops.Code("CLEANUP_FAILED").Wrap(err)
	}

	removed := 0
	for _, id := range ids {
		err := s.transactor.InTransaction(ctx, func(ctx context.Context) error {
			return s.documents.DeleteCascade(ctx, id)
		})
		switch {
		case errors.Is(err, ErrInvalidState), errors.Is(err, ErrNotFound):
			// Restored or already removed since the scan.
			continue
		case err != nil:
			return removed, oops.Code("CLEANUP_FAILED").With("document_id", id.String()).Wrap(err)
		}
		removed++
	}

	cleanupRemoved.Add(float64(removed))
	if removed > 0 {
		s.logger.Info("retention cleanup removed documents", "count", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// GetRevision retrieves one revision of a readable document.
func (s *Service) GetRevision(ctx context.Context, p access.Principal, documentID, revisionID ulid.ULID) (*Revision, error) {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelView); err != nil {
		return nil, err
	}
	return s.ownedRevision(ctx, documentID, revisionID)
}

// ListRevisions returns all revisions of a readable document, newest
// number first.
func (s *Service) ListRevisions(ctx context.Context, p access.Principal, documentID ulid.ULID) ([]*Revision, error) {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelView); err != nil {
		return nil, err
	}
	revs, err := s.revisions.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, oops.Code("LIST_REVISIONS_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return revs, nil
}

// GetPublishedRevision returns the currently published revision, or
// not-found while the document is unpublished.
func (s *Service) GetPublishedRevision(ctx context.Context, p access.Principal, documentID ulid.ULID) (*Revision, error) {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelView); err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return nil, oops.Code("GET_PUBLISHED_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	if doc.PublishedRevisionID == nil {
		return nil, oops.Code("NOT_PUBLISHED").With("document_id", documentID.String()).Wrap(ErrNotFound)
	}
	rev, err := s.revisions.Get(ctx, *doc.PublishedRevisionID)
	if err != nil {
		return nil, oops.Code("GET_PUBLISHED_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return rev, nil
}

// History returns the document's commits in append order. Commit ids
// are monotonic, so this order is authoritative regardless of
// timestamp precision.
func (s *Service) History(ctx context.Context, p access.Principal, documentID ulid.ULID) ([]*Commit, error) {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelView); err != nil {
		return nil, err
	}
	commits, err := s.commits.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, oops.Code("HISTORY_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return commits, nil
}

// ownedRevision loads a revision and verifies it belongs to the given
// document. A foreign revision resolves to not-found so callers cannot
// probe other documents' revision ids.
func (s *Service) ownedRevision(ctx context.Context, documentID, revisionID ulid.ULID) (*Revision, error) {
	rev, err := s.revisions.Get(ctx, revisionID)
	if err != nil {
		return nil, oops.Code("REVISION_NOT_FOUND").With("revision_id", revisionID.String()).Wrap(err)
	}
	if rev.DocumentID != documentID {
		return nil, oops.Code("REVISION_NOT_FOUND").
			With("revision_id", revisionID.String()).
			With("document_id", documentID.String()).
			Wrap(ErrNotFound)
	}
	return rev, nil
}

// newCommit builds a commit record for a transition. rev may be nil
// for actions without an associated revision.
func (s *Service) newCommit(documentID ulid.ULID, rev *Revision, action CommitAction, p access.Principal, now time.Time) *Commit {
	commit := &Commit{
		ID:            NewULID(),
		DocumentID:    documentID,
		Action:        action,
		CreatedBy:     p.ID,
		CreatedByName: p.Name,
		Created:       now,
	}
	if rev != nil {
		id := rev.ID
		number := rev.Number
		commit.RevisionID = &id
		commit.RevisionNumber = &number
	}
	return commit
}

// publishEvents hands derived events to the publisher in order.
// Delivery failures are logged, not surfaced: the transition has
// already committed and derivation happened exactly once.
func (s *Service) publishEvents(ctx context.Context, events []Event) {
	for _, ev := range events {
		eventsPublished.WithLabelValues(string(ev.Channel), string(ev.Kind)).Inc()
		if err := s.publisher.Publish(ctx, ev); err != nil {
			errutil.LogError(s.logger, "event publish failed", err)
		}
	}
}
