package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
)

var imageScanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Scan an image for vulnerabilities",
	Long: `Scan an image with trivy. The scan fails when any CRITICAL
vulnerability is found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := args[0]
		fmt.Printf("🔍 Scanning image %s for vulnerabilities...\n", image)

		format := "text"
		if GetOutput() == "json" {
			format = "json"
		}

		report, err := docker.NewScanner(runner()).Scan(image, format)
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}

		if format == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				return err
			}
		} else if report.Output != "" {
			fmt.Println(report.Output)
		}

		if !report.Passed {
			fmt.Println("❌ Critical vulnerabilities found!")
			os.Exit(1)
		}
		fmt.Println("✅ No critical vulnerabilities found")
		return nil
	},
}

func init() {
	imageCmd.AddCommand(imageScanCmd)
}
