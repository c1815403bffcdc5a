// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/access"
)

// External reference checks. An unreadable or nonexistent target is
// reported as not-found in both cases, so callers cannot learn whether
// a resource outside their scope exists.

func (s *Service) checkCompany(ctx context.Context, p access.Principal, companyID ulid.ULID) error {
	ok, err := s.external.CanReadCompany(ctx, p, companyID)
	if err != nil {
		return oops.Code("EXTERNAL_CHECK_FAILED").With("company_id", companyID.String()).Wrap(err)
	}
	if !ok {
		return oops.Code("COMPANY_NOT_FOUND").With("company_id", companyID.String()).Wrap(ErrNotFound)
	}
	return nil
}

func (s *Service) checkHub(ctx context.Context, p access.Principal, hubID ulid.ULID) error {
	ok, err := s.external.CanReadHub(ctx, p, hubID)
	if err != nil {
		return oops.Code("EXTERNAL_CHECK_FAILED").With("hub_id", hubID.String()).Wrap(err)
	}
	if !ok {
		return oops.Code("HUB_NOT_FOUND").With("hub_id", hubID.String()).Wrap(ErrNotFound)
	}
	return nil
}

func (s *Service) checkSurvey(ctx context.Context, p access.Principal, surveyID ulid.ULID) error {
	ok, err := s.external.CanReadSurvey(ctx, p, surveyID)
	if err != nil {
		return oops.Code("EXTERNAL_CHECK_FAILED").With("survey_id", surveyID.String()).Wrap(err)
	}
	if !ok {
		return oops.Code("SURVEY_NOT_FOUND").With("survey_id", surveyID.String()).Wrap(ErrNotFound)
	}
	return nil
}
