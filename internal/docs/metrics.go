// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for lifecycle transitions.
var (
	// transitionsTotal counts transitions by action and outcome.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dochub_lifecycle_transitions_total",
		Help: "Total number of lifecycle transitions by action and outcome",
	}, []string{"action", "outcome"})

	// eventsPublished counts derived events handed to the publisher.
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dochub_events_published_total",
		Help: "Total number of derived domain events published",
	}, []string{"channel", "kind"})

	// cleanupRemoved counts documents physically deleted by retention
	// cleanup runs.
	cleanupRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dochub_cleanup_removed_total",
		Help: "Total number of documents removed by retention cleanup",
	})
)

func recordTransition(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	transitionsTotal.WithLabelValues(action, outcome).Inc()
}
