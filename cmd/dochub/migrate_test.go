// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dochub/dochub/pkg/errutil"
)

func TestMigrateCmd_RejectsMissingConfigFile(t *testing.T) {
	t.Cleanup(func() { configFile = "" })
	configFile = "/nonexistent/dochub.yaml"

	cmd := NewMigrateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_FILE_FAILED")
}

func TestMigrateCmd_BadDatabaseURL(t *testing.T) {
	t.Setenv("DOCHUB_DATABASE_URL", "not-a-url")

	cmd := NewMigrateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}
