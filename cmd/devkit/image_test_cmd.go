package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
)

var testCommand string

var imageTestCmd = &cobra.Command{
	Use:   "test <image>",
	Short: "Test an image by running it in an ephemeral container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := args[0]
		fmt.Printf("🧪 Testing image %s...\n", image)

		var probe []string
		if testCommand != "" {
			probe = strings.Fields(testCommand)
		}

		passed, output := docker.NewClient(runner()).Test(image, probe)
		if !passed {
			return fmt.Errorf("❌ image test failed: %s", output)
		}

		fmt.Println("✅ Image test passed")
		if output != "" {
			fmt.Println(output)
		}
		return nil
	},
}

func init() {
	imageTestCmd.Flags().StringVarP(&testCommand, "command", "c", "", "Command to run in the container (default: --help)")
	imageCmd.AddCommand(imageTestCmd)
}
