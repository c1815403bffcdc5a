// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dochub/dochub/internal/access"
	"github.com/dochub/dochub/pkg/errutil"
)

var (
	grantUserID = ulid.MustParse("01J000000000000000000000E5")
	grantListID = ulid.MustParse("01J000000000000000000000B5")
)

// memPerms records grant writes; reads are not exercised here (the
// resolver tests cover those through the access package).
type memPerms struct {
	access.PermissionStore

	user     map[ulid.ULID]access.Level
	company  map[ulid.ULID]access.Level
	enduser  map[ulid.ULID]access.Level
	list     map[ulid.ULID]access.Level
	selected map[ulid.ULID]bool

	err error
}

func newMemPerms() *memPerms {
	return &memPerms{
		user:     map[ulid.ULID]access.Level{},
		company:  map[ulid.ULID]access.Level{},
		enduser:  map[ulid.ULID]access.Level{},
		list:     map[ulid.ULID]access.Level{},
		selected: map[ulid.ULID]bool{},
	}
}

func (m *memPerms) SetUserLevel(_ context.Context, _, userID ulid.ULID, level access.Level) error {
	if m.err != nil {
		return m.err
	}
	m.user[userID] = level
	return nil
}

func (m *memPerms) SetCompanyLevel(_ context.Context, _, companyID ulid.ULID, level access.Level) error {
	if m.err != nil {
		return m.err
	}
	m.company[companyID] = level
	return nil
}

func (m *memPerms) SetEnduserLevel(_ context.Context, _, enduserID, listID ulid.ULID, level access.Level) error {
	if m.err != nil {
		return m.err
	}
	m.enduser[enduserID] = level
	m.selected[listID] = true
	return nil
}

func (m *memPerms) SetEnduserListLevel(_ context.Context, _, listID ulid.ULID, level access.Level) error {
	if m.err != nil {
		return m.err
	}
	m.list[listID] = level
	m.selected[listID] = true
	return nil
}

func (m *memPerms) SelectedLists(context.Context, ulid.ULID) ([]ulid.ULID, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []ulid.ULID
	for id, ok := range m.selected {
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memPerms) RemoveSelectedList(_ context.Context, _, listID ulid.ULID) error {
	if m.err != nil {
		return m.err
	}
	delete(m.selected, listID)
	return nil
}

func newPermFixture(level access.Level) (*fixture, *memPerms) {
	f := newFixture(level)
	perms := newMemPerms()
	f.svc.perms = perms
	return f, perms
}

func TestService_GrantWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("set user grant", func(t *testing.T) {
		f, perms := newPermFixture(access.LevelManage)
		doc := f.seedDocument(t)

		err := f.svc.SetUserPermission(ctx, user(), doc.ID, grantUserID, access.LevelView)
		require.NoError(t, err)
		assert.Equal(t, access.LevelView, perms.user[grantUserID])
	})

	t.Run("set enduser grant marks the list selected", func(t *testing.T) {
		f, perms := newPermFixture(access.LevelManage)
		doc := f.seedDocument(t)

		err := f.svc.SetEnduserPermission(ctx, user(), doc.ID, grantUserID, grantListID, access.LevelNone)
		require.NoError(t, err)
		assert.True(t, perms.selected[grantListID], "marker is written even for a none grant")
	})

	t.Run("grant writes are not transitions", func(t *testing.T) {
		f, perms := newPermFixture(access.LevelManage)
		doc := f.seedDocument(t)

		require.NoError(t, f.svc.SetCompanyPermission(ctx, user(), doc.ID, companyID, access.LevelManage))
		require.NoError(t, f.svc.SetEnduserListPermission(ctx, user(), doc.ID, grantListID, access.LevelView))
		require.NoError(t, f.svc.RemoveSelectedList(ctx, user(), doc.ID, grantListID))

		assert.Empty(t, f.commits.commits, "grant writes append no commits")
		assert.Empty(t, f.pub.events, "grant writes fire no events")
		assert.Equal(t, access.LevelManage, perms.company[companyID])
		assert.False(t, perms.selected[grantListID])
	})

	t.Run("writes require manage", func(t *testing.T) {
		f, _ := newPermFixture(access.LevelView)
		doc := f.seedDocument(t)

		err := f.svc.SetUserPermission(ctx, user(), doc.ID, grantUserID, access.LevelView)
		require.ErrorIs(t, err, ErrForbidden)

		err = f.svc.RemoveSelectedList(ctx, user(), doc.ID, grantListID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("reading selected lists requires only view", func(t *testing.T) {
		f, perms := newPermFixture(access.LevelView)
		doc := f.seedDocument(t)
		perms.selected[grantListID] = true

		lists, err := f.svc.SelectedLists(ctx, user(), doc.ID)
		require.NoError(t, err)
		assert.Equal(t, []ulid.ULID{grantListID}, lists)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		f, perms := newPermFixture(access.LevelManage)
		doc := f.seedDocument(t)
		perms.err = errors.New("db down")

		err := f.svc.SetUserPermission(ctx, user(), doc.ID, grantUserID, access.LevelView)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SET_PERMISSION_FAILED")
	})
}

func TestMetaSource(t *testing.T) {
	ctx := context.Background()

	t.Run("missing document yields nil meta without error", func(t *testing.T) {
		src := MetaSource{Documents: newMemDocs()}

		meta, err := src.DocumentMeta(ctx, NewULID())
		require.NoError(t, err)
		assert.Nil(t, meta)
	})

	t.Run("maps archival and publication state", func(t *testing.T) {
		docs := newMemDocs()
		revID := NewULID()
		doc := &Document{
			ID:                  NewULID(),
			CompanyID:           companyID,
			CreatedBy:           actorID,
			PublishedRevisionID: &revID,
		}
		require.NoError(t, docs.Create(ctx, doc))

		src := MetaSource{Documents: docs}
		meta, err := src.DocumentMeta(ctx, doc.ID)
		require.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, companyID, meta.CompanyID)
		assert.Equal(t, actorID, meta.CreatedBy)
		assert.False(t, meta.Archived)
		assert.True(t, meta.Published)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		docs := newMemDocs()
		docs.getErr = errors.New("db down")
		src := MetaSource{Documents: docs}

		_, err := src.DocumentMeta(ctx, NewULID())
		require.Error(t, err)
	})
}
