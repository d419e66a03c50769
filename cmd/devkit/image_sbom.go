package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
)

var (
	sbomOutputFile string
	sbomFormat     string
)

var imageSBOMCmd = &cobra.Command{
	Use:   "sbom <image>",
	Short: "Generate a software bill of materials for an image",
	Long: `Generate an SBOM with syft, falling back to trivy when syft is not
installed. The default output path is sbom-reports/<image>.sbom.json with
slashes and colons in the reference replaced by underscores.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := args[0]
		fmt.Printf("📄 Generating SBOM for %s...\n", image)

		cfg := loadConfig()
		generator := docker.NewSBOMGenerator(runner(), cfg.SBOM.Dir)
		path, err := generator.Generate(image, sbomOutputFile, sbomFormat)
		if err != nil {
			return fmt.Errorf("❌ SBOM generation failed: %w", err)
		}

		fmt.Printf("✅ SBOM generated: %s\n", path)
		return nil
	},
}

func init() {
	imageSBOMCmd.Flags().StringVar(&sbomOutputFile, "output-file", "", "Output file path for the SBOM")
	imageSBOMCmd.Flags().StringVarP(&sbomFormat, "format", "f", "spdx-json", "SBOM format (spdx-json, cyclonedx-json)")
	imageCmd.AddCommand(imageSBOMCmd)
}
