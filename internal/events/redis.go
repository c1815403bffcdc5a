// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

// Package events delivers lifecycle events to downstream consumers.
// The Redis publisher appends to a stream; the log publisher is a
// stand-in for environments without Redis.
package events

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/dochub/dochub/internal/docs"
)

// DefaultStream is the stream events land on when none is configured.
const DefaultStream = "dochub:events"

// RedisPublisher appends events to a Redis stream via XADD. Consumers
// read with XREAD or consumer groups; the stream preserves the order
// events were published in.
type RedisPublisher struct {
	client redis.Cmdable
	stream string
}

// NewRedisPublisher creates a publisher writing to the given stream.
// An empty stream name falls back to DefaultStream.
func NewRedisPublisher(client redis.Cmdable, stream string) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream}
}

var _ docs.EventPublisher = (*RedisPublisher)(nil)

// Publish appends the event to the stream.
func (p *RedisPublisher) Publish(ctx context.Context, event docs.Event) error {
	values := map[string]any{
		"channel":    string(event.Channel),
		"kind":       string(event.Kind),
		"type":       string(event.Type),
		"company_id": event.CompanyID.String(),
		"actor_id":   event.ActorID.String(),
		"urn":        event.URN,
	}
	if event.PublishedRevisionURN != "" {
		values["published_revision_urn"] = event.PublishedRevisionURN
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return oops.Code("EVENT_PUBLISH_FAILED").
			With("stream", p.stream).
			With("urn", event.URN).
			Wrap(err)
	}
	return nil
}

// NewClient opens a Redis client and verifies connectivity.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // connection failed, nothing to release
		return nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", addr).Wrap(err)
	}
	return client, nil
}
