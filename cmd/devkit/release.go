package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
	"github.com/chainward/devkit/internal/semver"
)

var (
	releaseDockerfile string
	releaseContext    string
	releaseRegistry   string
	releaseNoCache    bool
	releaseNoLatest   bool
	releasePush       bool
	releaseChainguard bool
	releasePlatform   string
	releaseTest       bool
)

var imageReleaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Build, tag and optionally push an image",
	Long: `Build an image, optionally test it, apply the semantic version tag
set and optionally push everything to the registry. A convenience flow
equivalent to running build, test, tag and push in sequence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run := runner()
		client := docker.NewClient(run)
		resolver := &semver.Resolver{}
		version := resolver.Current()

		registry := releaseRegistry
		if registry == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			registry = filepath.Base(cwd)
		}

		imageName := fmt.Sprintf("%s:%s", registry, version)
		fmt.Printf("🔨 Building image %s...\n", imageName)

		built, err := client.Build(docker.BuildOptions{
			Dockerfile: releaseDockerfile,
			Context:    releaseContext,
			Name:       imageName,
			NoCache:    releaseNoCache,
			Platform:   releasePlatform,
		})
		if err != nil {
			return fmt.Errorf("❌ %w", err)
		}
		fmt.Printf("✅ Built image: %s\n", built)

		if releaseTest {
			fmt.Printf("🧪 Testing image %s...\n", built)
			passed, output := client.Test(built, nil)
			if !passed {
				return fmt.Errorf("❌ image test failed: %s", output)
			}
			fmt.Println("✅ Image test passed")
		}

		tags := docker.NewTagGenerator(run).Generate(registry, version, docker.TagOptions{
			IncludeLatest: !releaseNoLatest,
			Chainguard:    releaseChainguard,
		})

		// The canonical tag is already the built image; only the extra
		// tags need applying.
		var extra []string
		for _, tag := range tags {
			if tag != built {
				extra = append(extra, tag)
			}
		}

		if len(extra) > 0 {
			fmt.Println("🔖 Tagging image with additional tags:")
			for _, tag := range extra {
				fmt.Printf("  - %s\n", tag)
			}
			tagged, errs := client.Tag(built, extra)
			for _, err := range errs {
				fmt.Printf("⚠️  %v\n", err)
			}
			if len(tagged) == 0 {
				return fmt.Errorf("❌ failed to apply any tag")
			}
			fmt.Printf("✅ Tagged %d additional image references\n", len(tagged))
		}

		if releasePush {
			all := append([]string{built}, extra...)
			fmt.Println("🚀 Pushing images to registry...")
			pushed, errs := client.Push(all)
			for _, err := range errs {
				fmt.Printf("⚠️  %v\n", err)
			}
			if len(pushed) == 0 {
				return fmt.Errorf("❌ failed to push any image")
			}
			fmt.Printf("✅ Pushed %d image references\n", len(pushed))
		}
		return nil
	},
}

func init() {
	imageReleaseCmd.Flags().StringVar(&releaseDockerfile, "dockerfile", "Dockerfile", "Path to Dockerfile")
	imageReleaseCmd.Flags().StringVar(&releaseContext, "context", ".", "Path to build context")
	imageReleaseCmd.Flags().StringVar(&releaseRegistry, "registry", "", "Registry path (default: directory name)")
	imageReleaseCmd.Flags().BoolVar(&releaseNoCache, "no-cache", false, "Disable build cache")
	imageReleaseCmd.Flags().BoolVar(&releaseNoLatest, "no-latest", false, "Don't include the latest tag")
	imageReleaseCmd.Flags().BoolVar(&releasePush, "push", false, "Push images to the registry")
	imageReleaseCmd.Flags().BoolVar(&releaseChainguard, "chainguard", false, "Include Chainguard-specific tags")
	imageReleaseCmd.Flags().StringVar(&releasePlatform, "platform", "", "Target platform (e.g. linux/amd64)")
	imageReleaseCmd.Flags().BoolVar(&releaseTest, "test", false, "Test the image after building")
	imageCmd.AddCommand(imageReleaseCmd)
}
