package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
)

var (
	signKey   string
	verifyKey string
)

var imageSignCmd = &cobra.Command{
	Use:   "sign <image>",
	Short: "Sign an image with cosign",
	Long: `Sign an image with cosign. Without --key, keyless signing is used,
which is only permitted in a CI environment (CI or GITHUB_ACTIONS set).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := args[0]
		fmt.Printf("🔏 Signing image %s...\n", image)

		if _, err := docker.NewSigner(runner()).Sign(image, signKey); err != nil {
			return fmt.Errorf("❌ image signing failed: %w", err)
		}

		fmt.Println("✅ Image signed successfully")
		return nil
	},
}

var imageVerifyCmd = &cobra.Command{
	Use:   "verify <image>",
	Short: "Verify an image signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := args[0]
		fmt.Printf("🔍 Verifying signature for %s...\n", image)

		output, err := docker.NewSigner(runner()).Verify(image, verifyKey)
		if err != nil {
			return fmt.Errorf("❌ signature verification failed: %w", err)
		}

		fmt.Println("✅ Signature verified successfully")
		if output != "" {
			fmt.Println(output)
		}
		return nil
	},
}

func init() {
	imageSignCmd.Flags().StringVarP(&signKey, "key", "k", "", "Path to the cosign private key")
	imageVerifyCmd.Flags().StringVarP(&verifyKey, "key", "k", "", "Path to the cosign public key")
	imageCmd.AddCommand(imageSignCmd, imageVerifyCmd)
}
