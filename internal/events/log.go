// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package events

import (
	"context"
	"log/slog"

	"github.com/dochub/dochub/internal/docs"
)

// LogPublisher writes events to the structured log instead of a
// broker. Used when no Redis address is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher logging at info level.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

var _ docs.EventPublisher = (*LogPublisher)(nil)

// Publish logs the event. It never fails.
func (p *LogPublisher) Publish(ctx context.Context, event docs.Event) error {
	attrs := []any{
		"channel", string(event.Channel),
		"kind", string(event.Kind),
		"type", string(event.Type),
		"company_id", event.CompanyID.String(),
		"actor_id", event.ActorID.String(),
		"urn", event.URN,
	}
	if event.PublishedRevisionURN != "" {
		attrs = append(attrs, "published_revision_urn", event.PublishedRevisionURN)
	}
	p.logger.InfoContext(ctx, "event published", attrs...)
	return nil
}
