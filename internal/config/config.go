// Package config provides configuration management for devkit.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (DEVKIT_*)
// 3. Project config (.devkit.yml in cwd)
// 4. Home config (~/.devkit/config.yml)
// 5. Defaults
//
// A .env file in the working directory, when present, is loaded into the
// process environment before resolution. The resulting Config is a plain
// value handed to each collaborator's constructor; nothing reads ambient
// global state after Load returns.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all devkit configuration.
type Config struct {
	// Output controls the default output format (text, json).
	Output string `yaml:"output" json:"output"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Image settings for build/tag defaults.
	Image ImageConfig `yaml:"image" json:"image"`

	// SBOM settings.
	SBOM SBOMConfig `yaml:"sbom" json:"sbom"`

	// History settings for the local run database.
	History HistoryConfig `yaml:"history" json:"history"`

	// Git settings for commit hygiene and hooks.
	Git GitConfig `yaml:"git" json:"git"`
}

// ImageConfig holds container image defaults.
type ImageConfig struct {
	// Dockerfile is the default Dockerfile path.
	Dockerfile string `yaml:"dockerfile" json:"dockerfile"`

	// Context is the default build context path.
	Context string `yaml:"context" json:"context"`

	// Platform is the default target platform (empty = engine default).
	Platform string `yaml:"platform" json:"platform"`

	// IncludeLatest controls whether generated tag sets include :latest.
	IncludeLatest bool `yaml:"include_latest" json:"include_latest"`

	// ChainguardTags enables the extended Chainguard tag scheme.
	ChainguardTags bool `yaml:"chainguard_tags" json:"chainguard_tags"`
}

// SBOMConfig holds SBOM generation settings.
type SBOMConfig struct {
	// Dir is where generated SBOM files are written.
	Dir string `yaml:"dir" json:"dir"`

	// Format is the default SBOM format (spdx-json, cyclonedx-json).
	Format string `yaml:"format" json:"format"`
}

// HistoryConfig holds pipeline run history settings.
type HistoryConfig struct {
	// Path is the sqlite database location.
	Path string `yaml:"path" json:"path"`

	// Disabled turns off run recording entirely.
	Disabled bool `yaml:"disabled" json:"disabled"`
}

// GitConfig holds commit hygiene rules and hook switches.
type GitConfig struct {
	Commit CommitRules     `yaml:"commit" json:"commit"`
	Hooks  map[string]bool `yaml:"hooks" json:"hooks"`
}

// CommitRules constrain commit messages.
type CommitRules struct {
	// MaxLength is the maximum header length.
	MaxLength int `yaml:"max_length" json:"max_length"`

	// AllowedTypes lists permitted conventional commit types.
	AllowedTypes []string `yaml:"allowed_types" json:"allowed_types"`
}

const (
	defaultOutput     = "text"
	defaultSBOMDir    = "sbom-reports"
	defaultSBOMFormat = "spdx-json"
	defaultHistoryDB  = "data/devkit.db"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: defaultOutput,
		Image: ImageConfig{
			Dockerfile:    "Dockerfile",
			Context:       ".",
			IncludeLatest: true,
		},
		SBOM: SBOMConfig{
			Dir:    defaultSBOMDir,
			Format: defaultSBOMFormat,
		},
		History: HistoryConfig{
			Path: defaultHistoryDB,
		},
		Git: GitConfig{
			Commit: CommitRules{
				MaxLength:    100,
				AllowedTypes: []string{"feat", "fix", "docs", "style", "refactor", "test", "chore"},
			},
			Hooks: map[string]bool{
				"pre-commit": true,
				"pre-push":   true,
				"pre-rebase": true,
			},
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if homeConfig, _ := loadFromPath(homeConfigPath()); homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}
	if projectConfig, _ := loadFromPath(projectConfigPath()); projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".devkit", "config.yml")
}

func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("DEVKIT_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".devkit.yml")
}

func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("DEVKIT_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("DEVKIT_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("DEVKIT_SBOM_DIR"); v != "" {
		cfg.SBOM.Dir = v
	}
	if v := os.Getenv("DEVKIT_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("DEVKIT_HISTORY_DISABLED"); v == "true" || v == "1" {
		cfg.History.Disabled = true
	}
	return cfg
}

// merge overlays non-zero fields of override onto base.
func merge(base, override *Config) *Config {
	merged := *base

	if override.Output != "" {
		merged.Output = override.Output
	}
	if override.Verbose {
		merged.Verbose = true
	}

	if override.Image.Dockerfile != "" {
		merged.Image.Dockerfile = override.Image.Dockerfile
	}
	if override.Image.Context != "" {
		merged.Image.Context = override.Image.Context
	}
	if override.Image.Platform != "" {
		merged.Image.Platform = override.Image.Platform
	}
	if override.Image.ChainguardTags {
		merged.Image.ChainguardTags = true
	}

	if override.SBOM.Dir != "" {
		merged.SBOM.Dir = override.SBOM.Dir
	}
	if override.SBOM.Format != "" {
		merged.SBOM.Format = override.SBOM.Format
	}

	if override.History.Path != "" {
		merged.History.Path = override.History.Path
	}
	if override.History.Disabled {
		merged.History.Disabled = true
	}

	if override.Git.Commit.MaxLength != 0 {
		merged.Git.Commit.MaxLength = override.Git.Commit.MaxLength
	}
	if len(override.Git.Commit.AllowedTypes) > 0 {
		merged.Git.Commit.AllowedTypes = override.Git.Commit.AllowedTypes
	}
	if len(override.Git.Hooks) > 0 {
		hooks := make(map[string]bool, len(merged.Git.Hooks))
		for k, v := range merged.Git.Hooks {
			hooks[k] = v
		}
		for k, v := range override.Git.Hooks {
			hooks[k] = v
		}
		merged.Git.Hooks = hooks
	}

	return &merged
}
