package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/gitutil"
)

var lintCmd = &cobra.Command{
	Use:   "lint <message>",
	Short: "Validate a commit message",
	Long: `Check a commit message against the conventional commit format and the
configured rules (maximum header length, allowed types). Prints every
violation and exits non-zero when the message is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := args[0]
		linter := gitutil.NewLinter(loadConfig().Git.Commit)

		errs := linter.Errors(message)
		if len(errs) == 0 {
			fmt.Println("✅ Commit message is valid")
			return nil
		}
		for _, e := range errs {
			fmt.Printf("❌ %s\n", e)
		}
		return fmt.Errorf("%d validation error(s)", len(errs))
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
