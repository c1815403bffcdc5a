// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/dochub/dochub/internal/access"
	accesspg "github.com/dochub/dochub/internal/access/postgres"
	"github.com/dochub/dochub/internal/config"
	"github.com/dochub/dochub/internal/docs"
	docspg "github.com/dochub/dochub/internal/docs/postgres"
	"github.com/dochub/dochub/internal/events"
	"github.com/dochub/dochub/internal/janitor"
	"github.com/dochub/dochub/internal/logging"
	"github.com/dochub/dochub/internal/observability"
	"github.com/dochub/dochub/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the document service",
		Long: `Start the document service: connects to PostgreSQL, publishes
lifecycle events, runs the retention janitor, and serves metrics and
health probes.`,
		RunE: runServe,
	}
	cmd.Flags().String("log.format", "", "log output format (json or text)")
	cmd.Flags().String("log.level", "", "log level (debug, info, warn, error)")
	return cmd
}

// allowAllChecker accepts every external reference. Deployments with a
// directory service replace this with a real client.
type allowAllChecker struct{}

func (allowAllChecker) CanReadCompany(context.Context, access.Principal, ulid.ULID) (bool, error) {
	return true, nil
}

func (allowAllChecker) CanReadHub(context.Context, access.Principal, ulid.ULID) (bool, error) {
	return true, nil
}

func (allowAllChecker) CanReadSurvey(context.Context, access.Principal, ulid.ULID) (bool, error) {
	return true, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.SetDefault("dochub", version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	var publisher docs.EventPublisher
	if cfg.Redis.Addr != "" {
		client, err := events.NewClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		publisher = events.NewRedisPublisher(client, cfg.Events.Stream)
		logger.InfoContext(ctx, "publishing events to redis",
			"addr", cfg.Redis.Addr,
			"stream", cfg.Events.Stream)
	} else {
		publisher = events.NewLogPublisher(logger)
		logger.InfoContext(ctx, "no redis configured, events go to the log")
	}

	documents := docspg.NewDocumentRepository(pool)
	revisions := docspg.NewRevisionRepository(pool)
	commits := docspg.NewCommitRepository(pool)
	permissions := accesspg.NewPermissionStore(pool)
	resolver := access.NewResolver(docs.MetaSource{Documents: documents}, permissions)

	service := docs.NewService(docs.ServiceConfig{
		Documents:   documents,
		Revisions:   revisions,
		Commits:     commits,
		Permissions: permissions,
		Resolver:    resolver,
		External:    allowAllChecker{},
		Publisher:   publisher,
		Transactor:  docspg.NewTransactor(pool),
		Logger:      logger,
	})

	jan := janitor.New(service, janitor.Config{
		Retention: cfg.Janitor.Retention,
		Schedule:  cfg.Janitor.Schedule,
		Logger:    logger,
	})
	if err := jan.Start(ctx); err != nil {
		return err
	}
	defer jan.Stop()

	obs := observability.NewServer(cfg.Observability.Addr, func() bool {
		return pool.Ping(ctx) == nil
	})
	obsErrs, err := obs.Start()
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = obs.Stop(shutdownCtx)
	}()

	logger.InfoContext(ctx, "dochub started", "metrics_addr", obs.Addr())

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-obsErrs:
		return err
	}
}
