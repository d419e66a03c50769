package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
)

var imagePushCmd = &cobra.Command{
	Use:   "push <tag>...",
	Short: "Push image tags to their registry",
	Long: `Push one or more image tags. Each push is attempted independently;
failures are reported per tag and the command only fails when no tag
could be pushed at all.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("🚀 Pushing images to registry...")

		pushed, errs := docker.NewClient(runner()).Push(args)
		for _, err := range errs {
			fmt.Printf("⚠️  %v\n", err)
		}
		if len(pushed) == 0 {
			return fmt.Errorf("❌ failed to push any image")
		}

		fmt.Printf("✅ Pushed %d of %d image references\n", len(pushed), len(args))
		return nil
	},
}

func init() {
	imageCmd.AddCommand(imagePushCmd)
}
