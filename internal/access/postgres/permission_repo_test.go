// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dochub/dochub/internal/access"
)

var (
	testDocID  = ulid.MustParse("01J000000000000000000000D0")
	testUserID = ulid.MustParse("01J000000000000000000000A0")
	testListID = ulid.MustParse("01J000000000000000000000B0")
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock
}

func TestPermissionStore_Levels(t *testing.T) {
	t.Run("returns the stored level", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT level FROM user_permissions`).
			WithArgs(testDocID.String(), testUserID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"level"}).AddRow("manage"))

		level, err := NewPermissionStore(mock).UserLevel(context.Background(), testDocID, testUserID)
		require.NoError(t, err)
		assert.Equal(t, access.LevelManage, level)
	})

	t.Run("absent row reads as none", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT level FROM company_permissions`).
			WithArgs(testDocID.String(), testUserID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"level"}))

		level, err := NewPermissionStore(mock).CompanyLevel(context.Background(), testDocID, testUserID)
		require.NoError(t, err)
		assert.Equal(t, access.LevelNone, level)
	})

	t.Run("unknown level name is rejected", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT level FROM enduser_permissions`).
			WithArgs(testDocID.String(), testUserID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"level"}).AddRow("superuser"))

		_, err := NewPermissionStore(mock).EnduserLevel(context.Background(), testDocID, testUserID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "superuser")
	})

	t.Run("query failure is wrapped", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT level FROM enduser_list_permissions`).
			WithArgs(testDocID.String(), testListID.String()).
			WillReturnError(errors.New("connection refused"))

		_, err := NewPermissionStore(mock).EnduserListLevel(context.Background(), testDocID, testListID)
		require.Error(t, err)
	})
}

func TestPermissionStore_SetLevel(t *testing.T) {
	t.Run("upserts a grant", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO user_permissions`).
			WithArgs(testDocID.String(), testUserID.String(), "view").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := NewPermissionStore(mock).SetUserLevel(context.Background(), testDocID, testUserID, access.LevelView)
		require.NoError(t, err)
	})

	t.Run("none deletes the row", func(t *testing.T) {
		// Absence and LevelNone are the same state, so no none rows are
		// ever stored.
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM user_permissions`).
			WithArgs(testDocID.String(), testUserID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := NewPermissionStore(mock).SetUserLevel(context.Background(), testDocID, testUserID, access.LevelNone)
		require.NoError(t, err)
	})

	t.Run("enduser grant marks the list selected", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO enduser_permissions`).
			WithArgs(testDocID.String(), testUserID.String(), "manage").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO selected_enduser_lists`).
			WithArgs(testDocID.String(), testListID.String()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := NewPermissionStore(mock).SetEnduserLevel(context.Background(), testDocID, testUserID, testListID, access.LevelManage)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none enduser grant still marks the list", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM enduser_list_permissions`).
			WithArgs(testDocID.String(), testListID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(`INSERT INTO selected_enduser_lists`).
			WithArgs(testDocID.String(), testListID.String()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := NewPermissionStore(mock).SetEnduserListLevel(context.Background(), testDocID, testListID, access.LevelNone)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPermissionStore_Grants(t *testing.T) {
	t.Run("lists grants on a document", func(t *testing.T) {
		mock := newMockPool(t)
		other := ulid.MustParse("01J000000000000000000000A1")
		rows := pgxmock.NewRows([]string{"document_id", "user_id", "level"}).
			AddRow(testDocID.String(), testUserID.String(), "manage").
			AddRow(testDocID.String(), other.String(), "view")
		mock.ExpectQuery(`SELECT document_id, user_id, level FROM user_permissions`).
			WithArgs(testDocID.String()).
			WillReturnRows(rows)

		grants, err := NewPermissionStore(mock).UserGrants(context.Background(), testDocID)
		require.NoError(t, err)
		assert.Equal(t, []access.Grant{
			{DocumentID: testDocID, SubjectID: testUserID, Level: access.LevelManage},
			{DocumentID: testDocID, SubjectID: other, Level: access.LevelView},
		}, grants)
	})

	t.Run("no grants yields an empty slice", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT document_id, list_id, level FROM enduser_list_permissions`).
			WithArgs(testDocID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"document_id", "list_id", "level"}))

		grants, err := NewPermissionStore(mock).EnduserListGrants(context.Background(), testDocID)
		require.NoError(t, err)
		assert.Empty(t, grants)
		assert.NotNil(t, grants)
	})
}

func TestPermissionStore_SelectedLists(t *testing.T) {
	t.Run("returns marked lists", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT list_id FROM selected_enduser_lists`).
			WithArgs(testDocID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"list_id"}).AddRow(testListID.String()))

		lists, err := NewPermissionStore(mock).SelectedLists(context.Background(), testDocID)
		require.NoError(t, err)
		assert.Equal(t, []ulid.ULID{testListID}, lists)
	})

	t.Run("remove deletes the marker", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM selected_enduser_lists`).
			WithArgs(testDocID.String(), testListID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := NewPermissionStore(mock).RemoveSelectedList(context.Background(), testDocID, testListID)
		require.NoError(t, err)
	})
}
