// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package access

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DocumentMeta is the slice of document state resolution depends on.
type DocumentMeta struct {
	ID        ulid.ULID
	CompanyID ulid.ULID
	CreatedBy ulid.ULID
	Archived  bool
	Published bool
}

// DocumentSource supplies document metadata to the resolver. It is a
// narrow view of the document repository so this package stays
// decoupled from the lifecycle engine.
type DocumentSource interface {
	// DocumentMeta returns metadata for a document in any state, or
	// (nil, nil) when no row exists.
	DocumentMeta(ctx context.Context, id ulid.ULID) (*DocumentMeta, error)
}

// Resolver computes effective permission levels. It evaluates principal
// kinds in precedence order, short-circuiting on unconditional matches
// (internal account, creator, own-company admin) and reducing the
// remaining grant sources with max().
type Resolver struct {
	docs  DocumentSource
	perms PermissionStore
}

// NewResolver creates a Resolver over the given sources.
func NewResolver(docs DocumentSource, perms PermissionStore) *Resolver {
	return &Resolver{docs: docs, perms: perms}
}

// Resolve computes the principal's effective level on a document,
// gated on the requested resource status.
//
// A document that does not exist, or whose archived state does not
// match status, resolves to LevelNone with no error, so callers cannot
// distinguish "missing" from "present but wrong state".
func (r *Resolver) Resolve(ctx context.Context, p Principal, documentID ulid.ULID, status ResourceStatus) (Level, error) {
	start := time.Now()

	meta, err := r.docs.DocumentMeta(ctx, documentID)
	if err != nil {
		return LevelNone, oops.Code("RESOLVE_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	if meta == nil || meta.Archived != (status == StatusArchived) {
		recordResolution("status_gate", LevelNone, time.Since(start))
		return LevelNone, nil
	}

	rule, level, err := r.resolve(ctx, p, meta)
	if err != nil {
		return LevelNone, oops.Code("RESOLVE_FAILED").
			With("document_id", documentID.String()).
			With("principal_kind", p.Kind.String()).
			Wrap(err)
	}
	recordResolution(rule, level, time.Since(start))
	return level, nil
}

func (r *Resolver) resolve(ctx context.Context, p Principal, meta *DocumentMeta) (rule string, _ Level, _ error) {
	switch p.Kind {
	case KindInternal:
		return "internal", LevelManage, nil

	case KindCompanyAdmin, KindUser:
		if p.ID == meta.CreatedBy {
			return "creator", LevelManage, nil
		}
		if p.Kind == KindCompanyAdmin && p.CompanyID == meta.CompanyID {
			return "company_admin", LevelManage, nil
		}
		// A company admin on a foreign company's document holds no
		// implicit trust and falls through to explicit grants.
		level, err := r.userGrants(ctx, p, meta.ID)
		return "grants", level, err

	case KindEndUser:
		return r.enduser(ctx, p, meta)

	default:
		return "unknown_kind", LevelNone, nil
	}
}

// userGrants reduces the individual and company grant sources with max.
// The two writes commute; only the higher value survives.
func (r *Resolver) userGrants(ctx context.Context, p Principal, documentID ulid.ULID) (Level, error) {
	individual, err := r.perms.UserLevel(ctx, documentID, p.ID)
	if err != nil {
		return LevelNone, err
	}
	company, err := r.perms.CompanyLevel(ctx, documentID, p.CompanyID)
	if err != nil {
		return LevelNone, err
	}
	return MaxLevel(individual, company), nil
}

// enduser resolves end-user access. Trusted scopes replace grant
// lookups with a synthetic ceiling; otherwise the individual grant and
// every list grant reduce with max. Anything short of the full-cdl
// scope is denied outright on an unpublished document.
func (r *Resolver) enduser(ctx context.Context, p Principal, meta *DocumentMeta) (string, Level, error) {
	if p.HasScope(ScopeFullCDL) {
		return "scope_cdl", LevelManage, nil
	}
	if !meta.Published {
		return "unpublished", LevelNone, nil
	}
	if p.HasScope(ScopeSurveyRights) {
		return "scope_surveyrights", LevelView, nil
	}

	level, err := r.perms.EnduserLevel(ctx, meta.ID, p.ID)
	if err != nil {
		return "enduser_grants", LevelNone, err
	}
	for _, listID := range p.ListIDs {
		listLevel, err := r.perms.EnduserListLevel(ctx, meta.ID, listID)
		if err != nil {
			return "enduser_grants", LevelNone, err
		}
		level = MaxLevel(level, listLevel)
	}
	return "enduser_grants", level, nil
}
