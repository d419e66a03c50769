package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/config"
)

var (
	verbose  bool
	output   string
	repoPath string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gitkit",
	Short: "Git hygiene CLI",
	Long: `gitkit keeps a repository's commit hygiene in order.

Commands:
  commit        Create a validated conventional commit
  lint          Validate a commit message
  log           Show recent commits
  install-hook  Install a git hook script
  remove-hook   Remove a git hook
  status        Show repository status`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "r", ".", "Path to the git repository")
}

// GetOutput returns the output format for use by subcommands.
func GetOutput() string {
	return output
}

// GetRepoPath returns the repository path for use by subcommands.
func GetRepoPath() string {
	return repoPath
}

// loadConfig resolves the devkit configuration for the git rules.
func loadConfig() *config.Config {
	cfg, err := config.Load(nil)
	if err != nil {
		return config.Default()
	}
	return cfg
}
