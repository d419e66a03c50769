package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/gitutil"
)

var installHookCmd = &cobra.Command{
	Use:   "install-hook <name> <script-file>",
	Short: "Install a git hook script",
	Long: `Install the script file as the named hook (pre-commit, pre-push, ...).
Installation fails when the hook is disabled in the configuration.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, scriptPath := args[0], args[1]

		content, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read hook script: %w", err)
		}

		manager, err := gitutil.NewHookManager(GetRepoPath(), loadConfig().Git.Hooks)
		if err != nil {
			return err
		}
		if err := manager.Install(name, string(content)); err != nil {
			return fmt.Errorf("❌ %w", err)
		}

		fmt.Printf("✅ Installed %s hook\n", name)
		return nil
	},
}

var removeHookCmd = &cobra.Command{
	Use:   "remove-hook <name>",
	Short: "Remove a git hook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := gitutil.NewHookManager(GetRepoPath(), loadConfig().Git.Hooks)
		if err != nil {
			return err
		}
		if err := manager.Remove(args[0]); err != nil {
			return err
		}

		fmt.Printf("✅ Removed %s hook\n", args[0])
		return nil
	},
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "List installed hooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := gitutil.NewHookManager(GetRepoPath(), loadConfig().Git.Hooks)
		if err != nil {
			return err
		}
		names, err := manager.Installed()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No hooks installed.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installHookCmd, removeHookCmd, hooksCmd)
}
