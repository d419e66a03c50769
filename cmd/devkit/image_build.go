package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
)

var (
	buildDockerfile string
	buildContext    string
	buildName       string
	buildArgs       string
	buildNoCache    bool
	buildPlatform   string
)

var imageBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a container image",
	Long: `Build a container image from a Dockerfile.

When --name is omitted the image is named <directory>:<version> from the
current directory and the VERSION file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buildArgsMap, err := parseBuildArgs(buildArgs)
		if err != nil {
			return err
		}

		name := buildName
		if name == "" {
			name = docker.DefaultImageName()
		}
		fmt.Printf("🔨 Building image %s...\n", name)

		image, err := docker.NewClient(runner()).Build(docker.BuildOptions{
			Dockerfile: buildDockerfile,
			Context:    buildContext,
			Name:       name,
			BuildArgs:  buildArgsMap,
			NoCache:    buildNoCache,
			Platform:   buildPlatform,
		})
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}

		fmt.Printf("✅ Built image: %s\n", image)
		return nil
	},
}

func init() {
	imageBuildCmd.Flags().StringVar(&buildDockerfile, "dockerfile", "Dockerfile", "Path to Dockerfile")
	imageBuildCmd.Flags().StringVar(&buildContext, "context", ".", "Path to build context")
	imageBuildCmd.Flags().StringVar(&buildName, "name", "", "Name for the image (default: <directory>:<version>)")
	imageBuildCmd.Flags().StringVar(&buildArgs, "build-args", "", "Build arguments (key=value,key2=value2)")
	imageBuildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Disable build cache")
	imageBuildCmd.Flags().StringVar(&buildPlatform, "platform", "", "Target platform (e.g. linux/amd64)")
	imageCmd.AddCommand(imageBuildCmd)
}
