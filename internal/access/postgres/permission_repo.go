// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

// Package postgres implements the access.PermissionStore on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/access"
)

// poolIface is the subset of pgxpool.Pool the store uses, narrow
// enough for pgxmock pools under test.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PermissionStore implements access.PermissionStore using PostgreSQL.
// The four grant relations share one shape; each lives in its own
// table with a (document_id, subject) primary key, so at most one row
// exists per pair.
type PermissionStore struct {
	pool poolIface
}

// NewPermissionStore creates a new PermissionStore.
func NewPermissionStore(pool poolIface) *PermissionStore {
	return &PermissionStore{pool: pool}
}

// UserLevel returns the individual user grant, LevelNone if absent.
func (s *PermissionStore) UserLevel(ctx context.Context, documentID, userID ulid.ULID) (access.Level, error) {
	return s.level(ctx, `SELECT level FROM user_permissions WHERE document_id = $1 AND user_id = $2`, documentID, userID)
}

// CompanyLevel returns the whole-company grant, LevelNone if absent.
func (s *PermissionStore) CompanyLevel(ctx context.Context, documentID, companyID ulid.ULID) (access.Level, error) {
	return s.level(ctx, `SELECT level FROM company_permissions WHERE document_id = $1 AND company_id = $2`, documentID, companyID)
}

// EnduserLevel returns the individual end-user grant, LevelNone if absent.
func (s *PermissionStore) EnduserLevel(ctx context.Context, documentID, enduserID ulid.ULID) (access.Level, error) {
	return s.level(ctx, `SELECT level FROM enduser_permissions WHERE document_id = $1 AND enduser_id = $2`, documentID, enduserID)
}

// EnduserListLevel returns the whole-list grant, LevelNone if absent.
func (s *PermissionStore) EnduserListLevel(ctx context.Context, documentID, listID ulid.ULID) (access.Level, error) {
	return s.level(ctx, `SELECT level FROM enduser_list_permissions WHERE document_id = $1 AND list_id = $2`, documentID, listID)
}

func (s *PermissionStore) level(ctx context.Context, query string, documentID, subjectID ulid.ULID) (access.Level, error) {
	var name string
	err := s.pool.QueryRow(ctx, query, documentID.String(), subjectID.String()).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return access.LevelNone, nil
	}
	if err != nil {
		return access.LevelNone, oops.With("operation", "get grant level").With("document_id", documentID.String()).Wrap(err)
	}
	level, ok := access.ParseLevel(name)
	if !ok {
		return access.LevelNone, oops.Code("GRANT_LEVEL_INVALID").
			With("document_id", documentID.String()).
			With("level", name).
			Errorf("unknown grant level %q", name)
	}
	return level, nil
}

// SetUserLevel upserts the individual user grant; LevelNone deletes
// the row, keeping absence and None equivalent.
func (s *PermissionStore) SetUserLevel(ctx context.Context, documentID, userID ulid.ULID, level access.Level) error {
	return s.setLevel(ctx, "user_permissions", "user_id", documentID, userID, level)
}

// SetCompanyLevel upserts the whole-company grant.
func (s *PermissionStore) SetCompanyLevel(ctx context.Context, documentID, companyID ulid.ULID, level access.Level) error {
	return s.setLevel(ctx, "company_permissions", "company_id", documentID, companyID, level)
}

// SetEnduserLevel upserts the individual end-user grant and marks the
// end-user's list as selected. The marker is sticky: it is written for
// every grant write, including LevelNone, and never removed implicitly.
func (s *PermissionStore) SetEnduserLevel(ctx context.Context, documentID, enduserID, listID ulid.ULID, level access.Level) error {
	if err := s.setLevel(ctx, "enduser_permissions", "enduser_id", documentID, enduserID, level); err != nil {
		return err
	}
	return s.markSelected(ctx, documentID, listID)
}

// SetEnduserListLevel upserts the whole-list grant and marks the list
// as selected.
func (s *PermissionStore) SetEnduserListLevel(ctx context.Context, documentID, listID ulid.ULID, level access.Level) error {
	if err := s.setLevel(ctx, "enduser_list_permissions", "list_id", documentID, listID, level); err != nil {
		return err
	}
	return s.markSelected(ctx, documentID, listID)
}

func (s *PermissionStore) setLevel(ctx context.Context, table, subjectCol string, documentID, subjectID ulid.ULID, level access.Level) error {
	if level == access.LevelNone {
		_, err := s.pool.Exec(ctx,
			`DELETE FROM `+table+` WHERE document_id = $1 AND `+subjectCol+` = $2`,
			documentID.String(), subjectID.String())
		if err != nil {
			return oops.With("operation", "delete grant").With("table", table).Wrap(err)
		}
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+table+` (document_id, `+subjectCol+`, level)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (document_id, `+subjectCol+`) DO UPDATE SET level = $3`,
		documentID.String(), subjectID.String(), level.String())
	if err != nil {
		return oops.With("operation", "set grant").With("table", table).Wrap(err)
	}
	return nil
}

func (s *PermissionStore) markSelected(ctx context.Context, documentID, listID ulid.ULID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO selected_enduser_lists (document_id, list_id)
		 VALUES ($1, $2)
		 ON CONFLICT (document_id, list_id) DO NOTHING`,
		documentID.String(), listID.String())
	if err != nil {
		return oops.With("operation", "mark selected list").With("document_id", documentID.String()).Wrap(err)
	}
	return nil
}

// UserGrants lists all individual user grants on a document.
func (s *PermissionStore) UserGrants(ctx context.Context, documentID ulid.ULID) ([]access.Grant, error) {
	return s.grants(ctx, `SELECT document_id, user_id, level FROM user_permissions WHERE document_id = $1`, documentID)
}

// CompanyGrants lists all company grants on a document.
func (s *PermissionStore) CompanyGrants(ctx context.Context, documentID ulid.ULID) ([]access.Grant, error) {
	return s.grants(ctx, `SELECT document_id, company_id, level FROM company_permissions WHERE document_id = $1`, documentID)
}

// EnduserGrants lists all individual end-user grants on a document.
func (s *PermissionStore) EnduserGrants(ctx context.Context, documentID ulid.ULID) ([]access.Grant, error) {
	return s.grants(ctx, `SELECT document_id, enduser_id, level FROM enduser_permissions WHERE document_id = $1`, documentID)
}

// EnduserListGrants lists all whole-list grants on a document.
func (s *PermissionStore) EnduserListGrants(ctx context.Context, documentID ulid.ULID) ([]access.Grant, error) {
	return s.grants(ctx, `SELECT document_id, list_id, level FROM enduser_list_permissions WHERE document_id = $1`, documentID)
}

func (s *PermissionStore) grants(ctx context.Context, query string, documentID ulid.ULID) ([]access.Grant, error) {
	rows, err := s.pool.Query(ctx, query, documentID.String())
	if err != nil {
		return nil, oops.With("operation", "list grants").With("document_id", documentID.String()).Wrap(err)
	}
	defer rows.Close()

	grants := make([]access.Grant, 0)
	for rows.Next() {
		var docStr, subjectStr, levelStr string
		if err := rows.Scan(&docStr, &subjectStr, &levelStr); err != nil {
			return nil, oops.With("operation", "scan grant").Wrap(err)
		}
		docID, err := ulid.Parse(docStr)
		if err != nil {
			return nil, oops.With("operation", "parse document id").With("id", docStr).Wrap(err)
		}
		subjectID, err := ulid.Parse(subjectStr)
		if err != nil {
			return nil, oops.With("operation", "parse subject id").With("id", subjectStr).Wrap(err)
		}
		level, ok := access.ParseLevel(levelStr)
		if !ok {
			return nil, oops.Code("GRANT_LEVEL_INVALID").With("level", levelStr).Errorf("unknown grant level %q", levelStr)
		}
		grants = append(grants, access.Grant{DocumentID: docID, SubjectID: subjectID, Level: level})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate grants").Wrap(err)
	}
	return grants, nil
}

// SelectedLists returns the ids of lists marked relevant for the
// document.
func (s *PermissionStore) SelectedLists(ctx context.Context, documentID ulid.ULID) ([]ulid.ULID, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT list_id FROM selected_enduser_lists WHERE document_id = $1`, documentID.String())
	if err != nil {
		return nil, oops.With("operation", "list selected lists").With("document_id", documentID.String()).Wrap(err)
	}
	defer rows.Close()

	lists := make([]ulid.ULID, 0)
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, oops.With("operation", "scan selected list").Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.With("operation", "parse list id").With("id", idStr).Wrap(err)
		}
		lists = append(lists, id)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate selected lists").Wrap(err)
	}
	return lists, nil
}

// RemoveSelectedList explicitly removes a selected-list marker.
func (s *PermissionStore) RemoveSelectedList(ctx context.Context, documentID, listID ulid.ULID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM selected_enduser_lists WHERE document_id = $1 AND list_id = $2`,
		documentID.String(), listID.String())
	if err != nil {
		return oops.With("operation", "remove selected list").With("document_id", documentID.String()).Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ access.PermissionStore = (*PermissionStore)(nil)
