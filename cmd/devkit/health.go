package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/semver"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Container health probes",
	Long: `Health check commands for Kubernetes-style container probes.
Each probe prints a small JSON document and exits 0 when healthy.`,
}

func probeCmd(use, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("%s probe endpoint", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := &semver.Resolver{}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
				"status":    status,
				"version":   resolver.Current().String(),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		},
	}
}

func init() {
	healthCmd.AddCommand(
		probeCmd("live", "ok"),
		probeCmd("ready", "ready"),
		probeCmd("started", "started"),
	)
	rootCmd.AddCommand(healthCmd)
}
