// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the DocHub CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dochub",
		Short: "DocHub - versioned document access and lifecycle service",
		Long: `DocHub manages versioned documents: access resolution across user,
company, and enduser grants, the publish lifecycle with an append-only
commit log, and derived events for downstream consumers.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSweepCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
