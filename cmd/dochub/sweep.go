// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/dochub/dochub/internal/access"
	accesspg "github.com/dochub/dochub/internal/access/postgres"
	"github.com/dochub/dochub/internal/config"
	"github.com/dochub/dochub/internal/docs"
	docspg "github.com/dochub/dochub/internal/docs/postgres"
	"github.com/dochub/dochub/internal/events"
	"github.com/dochub/dochub/internal/logging"
	"github.com/dochub/dochub/internal/store"
)

// NewSweepCmd creates the sweep subcommand, a one-shot retention pass
// for operators and cron jobs outside the long-running server.
func NewSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one retention sweep and exit",
		Long: `Physically remove documents that have been archived longer than the
configured retention window, then exit. The long-running server does
this on a schedule; sweep is the manual equivalent.`,
		RunE: runSweep,
	}
	cmd.Flags().Duration("janitor.retention", 0, "override the configured retention window")
	return cmd
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.Setup("dochub-sweep", version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level), nil)

	ctx := cmd.Context()
	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	documents := docspg.NewDocumentRepository(pool)
	permissions := accesspg.NewPermissionStore(pool)

	service := docs.NewService(docs.ServiceConfig{
		Documents:   documents,
		Revisions:   docspg.NewRevisionRepository(pool),
		Commits:     docspg.NewCommitRepository(pool),
		Permissions: permissions,
		Resolver:    access.NewResolver(docs.MetaSource{Documents: documents}, permissions),
		External:    allowAllChecker{},
		Publisher:   events.NewLogPublisher(logger),
		Transactor:  docspg.NewTransactor(pool),
		Logger:      logger,
	})

	removed, err := service.Cleanup(ctx, cfg.Janitor.Retention)
	if err != nil {
		return err
	}
	cmd.Printf("Removed %d document(s)\n", removed)
	return nil
}
