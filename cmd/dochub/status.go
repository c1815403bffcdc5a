// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package main

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dochub/dochub/internal/config"
)

const statusTimeout = 5 * time.Second

// NewStatusCmd creates the status subcommand. It probes a running
// instance's health endpoints and exits non-zero when the instance is
// unreachable or not ready.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe a running instance's health endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runStatus(cmd, probeBaseURL(cfg.Observability.Addr))
		},
	}
}

// probeBaseURL turns a listen address into a client-side base URL. A
// bare ":9090" listens on all interfaces; probe it via localhost.
func probeBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func runStatus(cmd *cobra.Command, baseURL string) error {
	client := &http.Client{Timeout: statusTimeout}
	defer client.CloseIdleConnections()

	for _, probe := range []string{"liveness", "readiness"} {
		url := baseURL + "/healthz/" + probe
		resp, err := client.Get(url)
		if err != nil {
			return oops.Code("STATUS_UNREACHABLE").With("url", url).Wrap(err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return oops.Code("STATUS_NOT_READY").
				With("url", url).
				With("status", resp.StatusCode).
				Errorf("%s probe failed: %s", probe, strings.TrimSpace(string(body)))
		}
		cmd.Printf("%s: ok\n", probe)
	}
	return nil
}
