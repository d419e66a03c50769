package docker

import (
	"strings"
	"time"

	"github.com/chainward/devkit/internal/execx"
	"github.com/chainward/devkit/internal/semver"
)

// TagOptions selects which tags Generate emits beyond the base set.
type TagOptions struct {
	// IncludeLatest appends base:latest.
	IncludeLatest bool
	// Chainguard appends the extended fixed-scheme tags: a v-prefixed
	// full version, an M.m-chainguard tag, a static secure tag, a UTC
	// date tag, and the short commit hash of HEAD.
	Chainguard bool
}

// TagGenerator derives registry tag sets from a base name and a version.
type TagGenerator struct {
	run execx.Runner
	now func() time.Time
}

// NewTagGenerator returns a generator using the given runner for the
// commit-hash lookup.
func NewTagGenerator(run execx.Runner) *TagGenerator {
	return &TagGenerator{run: run, now: time.Now}
}

// Generate returns the ordered tag set for the image. The full version
// tag is always first and is the canonical tag the pipeline signs.
// Duplicate entries are possible when flag schemes overlap (for example
// a date tag colliding with a calendar-versioned release); they are kept
// as-is because the engine treats repeated tagging as a no-op.
func (g *TagGenerator) Generate(base string, v semver.Version, opts TagOptions) []string {
	tags := []string{
		base + ":" + v.String(),
		base + ":" + trimPatch(v),
		base + ":" + trimMinor(v),
	}

	if opts.IncludeLatest {
		tags = append(tags, base+":latest")
	}

	if opts.Chainguard {
		tags = append(tags,
			base+":v"+v.String(),
			base+":"+trimPatch(v)+"-chainguard",
			base+":secure",
			base+":"+g.now().UTC().Format("20060102"),
		)
		if hash, ok := g.headShortHash(); ok {
			tags = append(tags, base+":"+hash)
		}
	}

	return tags
}

// headShortHash returns the abbreviated hash of HEAD, or false when the
// repository has no commits or git is unavailable.
func (g *TagGenerator) headShortHash() (string, bool) {
	if !g.run.LookPath("git") {
		return "", false
	}
	result, err := g.run.Run([]string{"git", "rev-parse", "--short", "HEAD"})
	if err != nil {
		return "", false
	}
	hash := strings.TrimSpace(result.Stdout)
	if hash == "" {
		return "", false
	}
	return hash, true
}

func trimPatch(v semver.Version) string {
	s := v.String()
	return s[:strings.LastIndex(s, ".")]
}

func trimMinor(v semver.Version) string {
	s := v.String()
	return s[:strings.Index(s, ".")]
}
