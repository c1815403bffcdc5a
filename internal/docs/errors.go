// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import "errors"

// Failure taxonomy for lifecycle operations. Callers map these to
// denial signals with errors.Is; everything else is an infrastructure
// failure.
var (
	// ErrForbidden means the principal is authenticated and can see the
	// document but holds an insufficient level for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the document, revision, or referenced external
	// resource does not exist or is not visible to the principal. The
	// two cases are deliberately indistinguishable so callers cannot
	// probe for the existence of resources they cannot see.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a concurrent mutation won the race, e.g. a
	// duplicate revision number or a publish target that moved.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState means the document's current state does not admit
	// the transition, e.g. physical delete of a non-archived document.
	ErrInvalidState = errors.New("invalid state")
)
