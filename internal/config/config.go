// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

// Package config loads service configuration from an optional YAML
// file, DOCHUB_* environment variables, and command-line flags, in
// that order of increasing precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds all service settings.
type Config struct {
	Database      Database      `koanf:"database"`
	Redis         Redis         `koanf:"redis"`
	Events        Events        `koanf:"events"`
	Janitor       Janitor       `koanf:"janitor"`
	Observability Observability `koanf:"observability"`
	Log           Log           `koanf:"log"`
}

// Database holds PostgreSQL settings.
type Database struct {
	URL string `koanf:"url"`
}

// Redis holds broker settings. An empty Addr disables the Redis
// publisher and events go to the log instead.
type Redis struct {
	Addr string `koanf:"addr"`
}

// Events holds event delivery settings.
type Events struct {
	Stream string `koanf:"stream"`
}

// Janitor holds retention sweep settings.
type Janitor struct {
	Retention time.Duration `koanf:"retention"`
	Schedule  string        `koanf:"schedule"`
}

// Observability holds the metrics/health listener settings.
type Observability struct {
	Addr string `koanf:"addr"`
}

// Log holds logging settings.
type Log struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

func defaults(k *koanf.Koanf) {
	_ = k.Set("database.url", "postgres://localhost:5432/dochub")
	_ = k.Set("events.stream", "dochub:events")
	_ = k.Set("janitor.retention", "720h")
	_ = k.Set("janitor.schedule", "@hourly")
	_ = k.Set("observability.addr", ":9090")
	_ = k.Set("log.format", "text")
	_ = k.Set("log.level", "info")
}

// Load builds the configuration. path may be empty to skip the file
// layer; flags may be nil to skip the flag layer.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	defaults(k)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	// DOCHUB_DATABASE_URL maps to database.url and so on. Single-word
	// keys only, so underscores translate directly to dots.
	if err := k.Load(env.Provider("DOCHUB_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DOCHUB_")), "_", ".")
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if cfg.Database.URL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("database.url must not be empty")
	}
	if cfg.Janitor.Retention < 0 {
		return nil, oops.Code("CONFIG_INVALID").Errorf("janitor.retention must not be negative")
	}
	return &cfg, nil
}
