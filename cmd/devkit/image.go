package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Build, tag, test, scan, sign and push container images",
	// Replaces the root hook, so config syncing happens here too.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		syncConfigFlagToEnv()
		if !docker.NewClient(runner()).Installed() {
			return docker.ErrEngineUnavailable
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
}

// parseBuildArgs parses "key=value,key2=value2" into a map.
func parseBuildArgs(s string) (map[string]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	args := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid build arg %q, expected key=value", pair)
		}
		args[strings.TrimSpace(key)] = value
	}
	return args, nil
}
