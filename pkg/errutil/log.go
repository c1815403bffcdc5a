// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError emits an error record at slog.LevelError. When err carries oops
// metadata its code and context entries become top-level attributes, so
// downstream log queries can filter on them directly. Plain errors are
// logged with just the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	for key, value := range oopsErr.Context() {
		attrs = append(attrs, key, value)
	}
	logger.Error(msg, attrs...)
}
