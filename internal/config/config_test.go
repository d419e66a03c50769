package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output != "text" {
		t.Errorf("Default Output = %q, want %q", cfg.Output, "text")
	}
	if cfg.Image.Dockerfile != "Dockerfile" {
		t.Errorf("Default Image.Dockerfile = %q, want %q", cfg.Image.Dockerfile, "Dockerfile")
	}
	if !cfg.Image.IncludeLatest {
		t.Error("Default Image.IncludeLatest = false, want true")
	}
	if cfg.SBOM.Dir != "sbom-reports" {
		t.Errorf("Default SBOM.Dir = %q, want %q", cfg.SBOM.Dir, "sbom-reports")
	}
	if cfg.Git.Commit.MaxLength != 100 {
		t.Errorf("Default Git.Commit.MaxLength = %d, want %d", cfg.Git.Commit.MaxLength, 100)
	}
	if !cfg.Git.Hooks["pre-commit"] {
		t.Error("Default Git.Hooks[pre-commit] = false, want true")
	}
}

func TestLoadProjectConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "devkit.yml")
	content := `
output: json
sbom:
  dir: reports/sbom
git:
  commit:
    max_length: 72
  hooks:
    pre-push: false
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DEVKIT_CONFIG", configPath)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want %q", cfg.Output, "json")
	}
	if cfg.SBOM.Dir != "reports/sbom" {
		t.Errorf("SBOM.Dir = %q, want %q", cfg.SBOM.Dir, "reports/sbom")
	}
	if cfg.Git.Commit.MaxLength != 72 {
		t.Errorf("Git.Commit.MaxLength = %d, want %d", cfg.Git.Commit.MaxLength, 72)
	}
	// Overridden hook is off, untouched hooks keep their defaults.
	if cfg.Git.Hooks["pre-push"] {
		t.Error("Git.Hooks[pre-push] = true, want false")
	}
	if !cfg.Git.Hooks["pre-commit"] {
		t.Error("Git.Hooks[pre-commit] = false, want true")
	}
	// Unrelated defaults survive a partial file.
	if cfg.Image.Dockerfile != "Dockerfile" {
		t.Errorf("Image.Dockerfile = %q, want default", cfg.Image.Dockerfile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DEVKIT_CONFIG", filepath.Join(t.TempDir(), "absent.yml"))
	t.Setenv("DEVKIT_OUTPUT", "json")
	t.Setenv("DEVKIT_HISTORY_DISABLED", "1")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want %q", cfg.Output, "json")
	}
	if !cfg.History.Disabled {
		t.Error("History.Disabled = false, want true")
	}
}

func TestLoadFlagOverridesWinOverEnv(t *testing.T) {
	t.Setenv("DEVKIT_CONFIG", filepath.Join(t.TempDir(), "absent.yml"))
	t.Setenv("DEVKIT_OUTPUT", "json")

	cfg, err := Load(&Config{Output: "text"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output != "text" {
		t.Errorf("Output = %q, want %q", cfg.Output, "text")
	}
}
