// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dochub/dochub/internal/config"
	"github.com/dochub/dochub/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database.`,
		RunE:  runMigrate,
	}
	cmd.Flags().Bool("down", false, "roll back all migrations instead of applying them")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	down, err := cmd.Flags().GetBool("down")
	if err != nil {
		return oops.Wrap(err)
	}

	if down {
		cmd.Println("Rolling back migrations...")
		if err := migrator.Down(); err != nil {
			return err
		}
		cmd.Println("Rollback completed successfully")
		return nil
	}

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	cmd.Printf("Migrations completed successfully (version %d, dirty=%t)\n", version, dirty)
	return nil
}
