// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/access"
)

// Grant management. Writing grants requires Manage on the document;
// reading them requires View. Grant writes are not lifecycle
// transitions: they append no commit and fire no events.

// SetUserPermission upserts an individual user grant. LevelNone
// removes the row.
func (s *Service) SetUserPermission(ctx context.Context, p access.Principal, documentID, userID ulid.ULID, level access.Level) error {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return err
	}
	if err := s.perms.SetUserLevel(ctx, documentID, userID, level); err != nil {
		return oops.Code("SET_PERMISSION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return nil
}

// SetCompanyPermission upserts a whole-company grant.
func (s *Service) SetCompanyPermission(ctx context.Context, p access.Principal, documentID, companyID ulid.ULID, level access.Level) error {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return err
	}
	if err := s.perms.SetCompanyLevel(ctx, documentID, companyID, level); err != nil {
		return oops.Code("SET_PERMISSION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return nil
}

// SetEnduserPermission upserts an individual end-user grant and marks
// the end-user's list as selected for the document.
func (s *Service) SetEnduserPermission(ctx context.Context, p access.Principal, documentID, enduserID, listID ulid.ULID, level access.Level) error {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return err
	}
	if err := s.perms.SetEnduserLevel(ctx, documentID, enduserID, listID, level); err != nil {
		return oops.Code("SET_PERMISSION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return nil
}

// SetEnduserListPermission upserts a whole-list grant and marks the
// list as selected for the document.
func (s *Service) SetEnduserListPermission(ctx context.Context, p access.Principal, documentID, listID ulid.ULID, level access.Level) error {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return err
	}
	if err := s.perms.SetEnduserListLevel(ctx, documentID, listID, level); err != nil {
		return oops.Code("SET_PERMISSION_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return nil
}

// SelectedLists enumerates the end-user lists marked relevant for the
// document, independent of current grant values.
func (s *Service) SelectedLists(ctx context.Context, p access.Principal, documentID ulid.ULID) ([]ulid.ULID, error) {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelView); err != nil {
		return nil, err
	}
	lists, err := s.perms.SelectedLists(ctx, documentID)
	if err != nil {
		return nil, oops.Code("SELECTED_LISTS_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return lists, nil
}

// RemoveSelectedList explicitly removes a selected-list marker.
func (s *Service) RemoveSelectedList(ctx context.Context, p access.Principal, documentID, listID ulid.ULID) error {
	if err := s.authorize(ctx, p, documentID, access.StatusExists, access.LevelManage); err != nil {
		return err
	}
	if err := s.perms.RemoveSelectedList(ctx, documentID, listID); err != nil {
		return oops.Code("REMOVE_SELECTED_LIST_FAILED").With("document_id", documentID.String()).Wrap(err)
	}
	return nil
}

// MetaSource adapts a DocumentRepository to access.DocumentSource so
// the resolver can gate on document state without depending on this
// package.
type MetaSource struct {
	Documents DocumentRepository
}

// DocumentMeta returns resolution metadata for a document, or
// (nil, nil) when no row exists.
func (m MetaSource) DocumentMeta(ctx context.Context, id ulid.ULID) (*access.DocumentMeta, error) {
	doc, err := m.Documents.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &access.DocumentMeta{
		ID:        doc.ID,
		CompanyID: doc.CompanyID,
		CreatedBy: doc.CreatedBy,
		Archived:  doc.Archived(),
		Published: doc.Published(),
	}, nil
}

// Compile-time interface check.
var _ access.DocumentSource = MetaSource{}
