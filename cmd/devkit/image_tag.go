package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/docker"
	"github.com/chainward/devkit/internal/semver"
)

var (
	tagPush       bool
	tagNoLatest   bool
	tagChainguard bool
)

var imageTagCmd = &cobra.Command{
	Use:   "tag <source-image> <registry-path>",
	Short: "Tag an image with semantic version tags",
	Long: `Tag an image with the semantic version tag set derived from the
current project version: full version, major.minor, major, and latest.
The --chainguard flag adds the extended scheme (v-prefixed version,
-chainguard suffix, secure, date and commit hash tags).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, registry := args[0], args[1]
		run := runner()
		resolver := &semver.Resolver{}

		tags := docker.NewTagGenerator(run).Generate(registry, resolver.Current(), docker.TagOptions{
			IncludeLatest: !tagNoLatest,
			Chainguard:    tagChainguard,
		})

		fmt.Printf("🔖 Tagging image %s with:\n", source)
		for _, tag := range tags {
			fmt.Printf("  - %s\n", tag)
		}

		client := docker.NewClient(run)
		tagged, errs := client.Tag(source, tags)
		for _, err := range errs {
			fmt.Printf("⚠️  %v\n", err)
		}
		if len(tagged) == 0 {
			return fmt.Errorf("❌ failed to apply any tag")
		}
		fmt.Printf("✅ Tagged %d image references\n", len(tagged))

		if tagPush {
			fmt.Println("🚀 Pushing images to registry...")
			pushed, errs := client.Push(tags)
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
	imageTagCmd.Flags().BoolVar(&tagPush, "push", false, "Push tagged images to the registry")
	imageTagCmd.Flags().BoolVar(&tagNoLatest, "no-latest", false, "Don't include the latest tag")
	imageTagCmd.Flags().BoolVar(&tagChainguard, "chainguard", false, "Include Chainguard-specific tags")
	imageCmd.AddCommand(imageTagCmd)
}
