package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/gitutil"
)

var (
	commitFiles []string
	logLimit    int
)

var commitCmd = &cobra.Command{
	Use:   "commit <message>",
	Short: "Create a validated conventional commit",
	Long: `Validate the message against the configured commit rules, stage the
given files (or everything when no -f flag is passed) and commit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := args[0]
		cfg := loadConfig()

		manager, err := gitutil.NewCommitManager(GetRepoPath(), cfg.Git.Commit)
		if err != nil {
			return err
		}

		hash, err := manager.Commit(message, commitFiles)
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}

		fmt.Printf("✅ Created commit %s: %s\n", hash[:7], message)
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent commits",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		manager, err := gitutil.NewCommitManager(GetRepoPath(), cfg.Git.Commit)
		if err != nil {
			return err
		}

		commits, err := manager.History(logLimit)
		if err != nil {
			return err
		}
		for _, commit := range commits {
			fmt.Printf("%s  %s  %s  %s\n",
				commit.Hash[:7],
				commit.Date.Format("2006-01-02"),
				commit.Author,
				firstLine(commit.Message))
		}
		return nil
	},
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func init() {
	commitCmd.Flags().StringArrayVarP(&commitFiles, "file", "f", nil, "Specific files to commit (repeatable)")
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 10, "Maximum number of commits to show")
	rootCmd.AddCommand(commitCmd, logCmd)
}
