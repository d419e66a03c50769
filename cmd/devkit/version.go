package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/semver"
)

var (
	versionNoCommit   bool
	versionNoTag      bool
	versionTagMessage string
	versionPush       bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Manage the project version",
	Long: `Manage the project's semantic version.

The VERSION file in the project root is the source of truth; a
package.json version field is kept in sync when present.`,
}

var versionCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current version",
	Run: func(cmd *cobra.Command, args []string) {
		resolver := &semver.Resolver{}
		fmt.Printf("Current version: %s\n", resolver.Current())
	},
}

var versionBumpCmd = &cobra.Command{
	Use:   "bump {major|minor|patch}",
	Short: "Bump the project version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := semver.ParseBumpKind(args[0])
		if err != nil {
			return err
		}

		resolver := &semver.Resolver{}
		current := resolver.Current()
		next := current.Bump(kind)
		fmt.Printf("Current version: %s\n", current)
		fmt.Printf("New version: %s\n", next)

		if err := resolver.Set(next); err != nil {
			return err
		}
		fmt.Println("✅ Updated version in files")

		return finalizeVersionChange(next, kind)
	},
}

var versionSetCmd = &cobra.Command{
	Use:   "set <version>",
	Short: "Set a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		next, err := semver.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid version format, use semantic versioning (e.g. 1.2.3): %w", err)
		}

		resolver := &semver.Resolver{}
		fmt.Printf("Current version: %s\n", resolver.Current())

		if err := resolver.Set(next); err != nil {
			return err
		}
		fmt.Println("✅ Updated version in files")

		return finalizeVersionChange(next, semver.Patch)
	},
}

// finalizeVersionChange commits and tags the version change per the
// --no-commit / --no-tag / --push flags.
func finalizeVersionChange(v semver.Version, kind semver.BumpKind) error {
	run := runner()

	if !versionNoCommit {
		if err := semver.CommitChange(run, v, kind); err != nil {
			return fmt.Errorf("❌ failed to create version commit: %w", err)
		}
		fmt.Println("✅ Created version commit")
	}

	if !versionNoTag {
		if err := semver.CreateTag(run, v, versionTagMessage); err != nil {
			return fmt.Errorf("❌ failed to create git tag: %w", err)
		}
		fmt.Printf("✅ Created git tag v%s\n", v)

		if versionPush {
			if err := semver.PushTag(run, v); err != nil {
				return fmt.Errorf("❌ failed to push git tag: %w", err)
			}
			fmt.Printf("✅ Pushed tag v%s\n", v)
		}
	}

	fmt.Printf("✅ Version is now %s\n", v)
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{versionBumpCmd, versionSetCmd} {
		cmd.Flags().BoolVar(&versionNoCommit, "no-commit", false, "Don't create a commit")
		cmd.Flags().BoolVar(&versionNoTag, "no-tag", false, "Don't create a git tag")
		cmd.Flags().StringVar(&versionTagMessage, "tag-message", "", "Custom tag message")
		cmd.Flags().BoolVar(&versionPush, "push", false, "Push tag to remote repository")
	}
	versionCmd.AddCommand(versionCurrentCmd, versionBumpCmd, versionSetCmd)
	rootCmd.AddCommand(versionCmd)
}
