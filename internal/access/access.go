// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

// Package access computes effective permission levels for principals
// against documents.
//
// A document's effective level combines several independent grant
// sources (individual user, owning company, individual end-user,
// end-user list) with principal-kind precedence rules. Resolution is a
// pure read over current grant state; it never mutates anything.
package access

import (
	"github.com/oklog/ulid/v2"
)

// Level is an effective permission level. Levels are ordered:
// None < View < Manage.
type Level uint8

const (
	// LevelNone means no access. A grant row set to None is equivalent
	// to the row being absent.
	LevelNone Level = iota
	// LevelView allows reading a document and its published revision.
	LevelView
	// LevelManage allows every lifecycle operation on a document.
	LevelManage
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelView:
		return "view"
	case LevelManage:
		return "manage"
	default:
		return "unknown"
	}
}

// AtLeast reports whether l grants at least the required level.
func (l Level) AtLeast(required Level) bool {
	return l >= required
}

// MaxLevel returns the highest of the given levels.
func MaxLevel(levels ...Level) Level {
	var max Level
	for _, l := range levels {
		if l > max {
			max = l
		}
	}
	return max
}

// ParseLevel parses a level name as produced by Level.String.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "none":
		return LevelNone, true
	case "view":
		return LevelView, true
	case "manage":
		return LevelManage, true
	default:
		return LevelNone, false
	}
}

// Kind identifies the category of an authenticated principal.
type Kind uint8

const (
	// KindInternal is a trusted platform account (admin or pros role).
	KindInternal Kind = iota
	// KindCompanyAdmin administers a single company.
	KindCompanyAdmin
	// KindUser is an ordinary authenticated user.
	KindUser
	// KindEndUser is an end-user consuming published documents.
	KindEndUser
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindCompanyAdmin:
		return "company_admin"
	case KindUser:
		return "user"
	case KindEndUser:
		return "enduser"
	default:
		return "unknown"
	}
}

// Scope is a trusted token scope carried by end-user principals.
type Scope string

const (
	// ScopeSurveyRights caps the principal at View, bypassing
	// per-document grants entirely.
	ScopeSurveyRights Scope = "surveyrights"
	// ScopeFullCDL grants Manage, bypassing per-document grants
	// entirely.
	ScopeFullCDL Scope = "cdl:full"
)

// Principal is an authenticated actor. The zero value is not valid;
// construct one per request from the authentication layer.
type Principal struct {
	Kind      Kind
	ID        ulid.ULID
	Name      string
	CompanyID ulid.ULID
	// ListIDs are the end-user lists the principal belongs to.
	// Only meaningful for KindEndUser.
	ListIDs []ulid.ULID
	Scopes  []Scope
}

// HasScope reports whether the principal carries the given scope.
func (p Principal) HasScope(s Scope) bool {
	for _, have := range p.Scopes {
		if have == s {
			return true
		}
	}
	return false
}

// ResourceStatus selects which document state a resolution targets.
// A document whose actual state does not match resolves to None,
// indistinguishable from the document not existing.
type ResourceStatus uint8

const (
	// StatusExists targets active (non-archived) documents.
	StatusExists ResourceStatus = iota
	// StatusArchived targets soft-deleted documents.
	StatusArchived
)

func (s ResourceStatus) String() string {
	if s == StatusArchived {
		return "archived"
	}
	return "exists"
}
