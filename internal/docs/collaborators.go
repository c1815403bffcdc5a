// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/dochub/dochub/internal/access"
)

// ExternalAccessChecker answers whether a principal may read resources
// owned by other services (companies, hubs, linked surveys). Consulted
// when a transition introduces a reference to one of them.
type ExternalAccessChecker interface {
	CanReadCompany(ctx context.Context, p access.Principal, companyID ulid.ULID) (bool, error)
	CanReadHub(ctx context.Context, p access.Principal, hubID ulid.ULID) (bool, error)
	CanReadSurvey(ctx context.Context, p access.Principal, surveyID ulid.ULID) (bool, error)
}

// EventPublisher delivers derived domain events. Delivery and ordering
// beyond "publish in the order derived" are the publisher's concern.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// AccessResolver computes effective permission levels. Mirrors
// access.Resolver so the engine can be tested against a double.
type AccessResolver interface {
	Resolve(ctx context.Context, p access.Principal, documentID ulid.ULID, status access.ResourceStatus) (access.Level, error)
}
