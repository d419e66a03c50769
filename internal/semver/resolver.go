package semver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chainward/devkit/internal/execx"
)

// VersionFile is the source-of-truth version declaration.
const VersionFile = "VERSION"

var (
	packageJSONVersionRe = regexp.MustCompile(`"version"\s*:\s*"[^"]+"`)
	tagVersionRe         = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)
)

// Resolver reads and writes the project version. The VERSION file in the
// project root is the source of truth; a package.json version field is
// kept in sync when present.
type Resolver struct {
	// Dir is the project root. Empty means the current directory.
	Dir string
}

func (r *Resolver) path(name string) string {
	if r.Dir == "" {
		return name
	}
	return filepath.Join(r.Dir, name)
}

// Current returns the project version. An unreadable or malformed
// VERSION file falls back soft to 0.0.0; that is a deliberate default
// for fresh projects, not an error surfaced to the user.
func (r *Resolver) Current() Version {
	data, err := os.ReadFile(r.path(VersionFile))
	if err != nil {
		return Version{}
	}
	v, err := Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return Version{}
	}
	return v
}

// Set writes the literal version string into every tracked declaration.
// The rewrite is an in-place text substitution, so calling Set twice with
// the same version leaves the files byte-identical.
func (r *Resolver) Set(v Version) error {
	if err := os.WriteFile(r.path(VersionFile), []byte(v.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", VersionFile, err)
	}

	pkgPath := r.path("package.json")
	data, err := os.ReadFile(pkgPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read package.json: %w", err)
	}

	updated := packageJSONVersionRe.ReplaceAll(data, []byte(fmt.Sprintf(`"version": %q`, v.String())))
	if err := os.WriteFile(pkgPath, updated, 0o644); err != nil {
		return fmt.Errorf("write package.json: %w", err)
	}
	return nil
}

// LatestTag returns the newest semver release tag (without the v prefix),
// or false when the repository has none.
func LatestTag(run execx.Runner) (Version, bool) {
	result, err := run.Run([]string{"git", "tag", "--sort=-v:refname"})
	if err != nil {
		return Version{}, false
	}
	for _, tag := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
		if tagVersionRe.MatchString(tag) {
			v, err := Parse(tag[1:])
			if err == nil {
				return v, true
			}
		}
	}
	return Version{}, false
}

// CommitChange stages the tracked version files and commits them with a
// conventional release message.
func CommitChange(run execx.Runner, v Version, kind BumpKind) error {
	if _, err := run.Run([]string{"git", "add", VersionFile, "package.json"}); err != nil {
		// package.json may not exist; retry with the VERSION file alone.
		if _, err := run.Run([]string{"git", "add", VersionFile}); err != nil {
			return fmt.Errorf("stage version files: %w", err)
		}
	}

	message := fmt.Sprintf("chore(release): bump version to %s", v)
	switch kind {
	case Major:
		message = fmt.Sprintf("chore(release): bump major version to %s", v)
	case Minor:
		message = fmt.Sprintf("chore(release): bump minor version to %s", v)
	}

	if _, err := run.Run([]string{"git", "commit", "-m", message}); err != nil {
		return fmt.Errorf("commit version change: %w", err)
	}
	return nil
}

// CreateTag creates an annotated release tag for the current commit.
func CreateTag(run execx.Runner, v Version, message string) error {
	tag := "v" + v.String()
	if message == "" {
		message = "Release " + tag
	}
	if _, err := run.Run([]string{"git", "tag", "-a", tag, "-m", message}); err != nil {
		return fmt.Errorf("create tag %s: %w", tag, err)
	}
	return nil
}

// PushTag pushes a release tag to origin.
func PushTag(run execx.Runner, v Version) error {
	tag := "v" + v.String()
	if _, err := run.Run([]string{"git", "push", "origin", tag}); err != nil {
		return fmt.Errorf("push tag %s: %w", tag, err)
	}
	return nil
}
