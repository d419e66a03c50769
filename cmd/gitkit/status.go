package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/gitutil"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show repository status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := gitutil.RepoStatus(GetRepoPath())
		if err != nil {
			return err
		}

		if GetOutput() == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(status)
		}

		fmt.Printf("Branch: %s\n", status.Branch)
		if status.Clean {
			fmt.Println("✅ Working directory clean")
		} else {
			fmt.Println("⚠️  Working directory has uncommitted changes")
		}
		if len(status.Untracked) > 0 {
			fmt.Printf("Untracked files (%d):\n", len(status.Untracked))
			for _, file := range status.Untracked {
				fmt.Printf("  %s\n", file)
			}
		}
		fmt.Printf("Local branches: %s\n", strings.Join(status.LocalBranches, ", "))
		if len(status.RemoteBranches) > 0 {
			fmt.Printf("Remote branches: %s\n", strings.Join(status.RemoteBranches, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
