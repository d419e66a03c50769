package gitutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ErrHookDisabled is returned when installing a hook that the
// configuration has switched off.
var ErrHookDisabled = errors.New("hook is disabled in configuration")

// HookManager installs and removes scripts under .git/hooks.
type HookManager struct {
	hooksDir string
	enabled  map[string]bool
}

// NewHookManager opens the repository at path and returns a manager for
// its hooks directory. The enabled map gates installation per hook name;
// hooks absent from the map are treated as enabled.
func NewHookManager(path string, enabled map[string]bool) (*HookManager, error) {
	if _, err := git.PlainOpen(path); err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return &HookManager{
		hooksDir: filepath.Join(path, ".git", "hooks"),
		enabled:  enabled,
	}, nil
}

// Path returns where the named hook lives (whether or not it exists).
func (h *HookManager) Path(name string) string {
	return filepath.Join(h.hooksDir, name)
}

// Install writes the hook script executable. It fails with
// ErrHookDisabled when the configuration disables the hook.
func (h *HookManager) Install(name, content string) error {
	if enabled, known := h.enabled[name]; known && !enabled {
		return fmt.Errorf("%w: %s", ErrHookDisabled, name)
	}
	if err := os.MkdirAll(h.hooksDir, 0o755); err != nil {
		return fmt.Errorf("create hooks dir: %w", err)
	}
	if err := os.WriteFile(h.Path(name), []byte(content), 0o755); err != nil {
		return fmt.Errorf("install %s hook: %w", name, err)
	}
	return nil
}

// Remove deletes the named hook. Removing a hook that does not exist is
// not an error.
func (h *HookManager) Remove(name string) error {
	err := os.Remove(h.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s hook: %w", name, err)
	}
	return nil
}

// Installed lists the hooks currently present, sorted by name. Sample
// hooks shipped by git init (*.sample) are excluded.
func (h *HookManager) Installed() ([]string, error) {
	entries, err := os.ReadDir(h.hooksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read hooks dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) == ".sample" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
