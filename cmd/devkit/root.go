package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/config"
	"github.com/chainward/devkit/internal/execx"
)

var (
	// Global flags
	verbose bool
	output  string
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "devkit",
	Short: "Development workflow automation CLI",
	Long: `devkit automates the delivery workflow of a containerized project.

Core Commands:
  secure       Run the complete secure delivery pipeline
  image        Build, tag, test, scan, sign and push container images
  version      Manage the project version (VERSION file + package.json)
  runs         Inspect recorded pipeline runs
  health       Container health probes

The secure pipeline chains build, test, vulnerability scan, SBOM
generation, policy checks, tagging, signing and push into one command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		syncConfigFlagToEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .devkit.yml)")
}

// GetVerbose returns the verbose flag value for use by subcommands.
func GetVerbose() bool {
	return verbose
}

// GetOutput returns the output format for use by subcommands.
func GetOutput() string {
	return output
}

// GetConfigFile returns the config file path for use by subcommands.
func GetConfigFile() string {
	return cfgFile
}

// VerbosePrintf prints only when verbose mode is enabled.
func VerbosePrintf(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format, args...)
	}
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(GetConfigFile())
	if path == "" {
		return
	}
	_ = os.Setenv("DEVKIT_CONFIG", path)
}

// loadConfig resolves configuration with the global flags layered on top.
func loadConfig() *config.Config {
	overrides := &config.Config{Verbose: GetVerbose()}
	if rootCmd.PersistentFlags().Changed("output") {
		overrides.Output = GetOutput()
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return config.Default()
	}
	return cfg
}

// runner returns the process runner used by all subcommands.
func runner() execx.Runner {
	return execx.NewRunner()
}
