// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package access

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for permission resolution.
var (
	// resolveDuration tracks the latency of Resolve() calls.
	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dochub_access_resolve_duration_seconds",
		Help:    "Histogram of permission resolution latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// resolutions counts resolutions by the rule that decided them and
	// the resulting level.
	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dochub_access_resolutions_total",
		Help: "Total number of permission resolutions",
	}, []string{"rule", "level"})
)

// recordResolution records metrics for one completed resolution.
func recordResolution(rule string, level Level, duration time.Duration) {
	resolveDuration.Observe(duration.Seconds())
	resolutions.WithLabelValues(rule, level.String()).Inc()
}
