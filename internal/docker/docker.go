// Package docker wraps the external tools of the secure image-delivery
// pipeline: the container engine itself plus trivy, syft, cosign, and
// kyverno. Every wrapper shells out through an injected execx.Runner and
// reports a typed success/output contract; nothing here retries, sleeps,
// or talks to a registry directly.
package docker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chainward/devkit/internal/execx"
	"github.com/chainward/devkit/internal/semver"
)

// ErrEngineUnavailable indicates the container engine is not reachable.
var ErrEngineUnavailable = errors.New("docker is not installed or not in PATH")

// ErrDockerfileNotFound indicates the Dockerfile precondition failed.
// The engine is never invoked when this is returned.
var ErrDockerfileNotFound = errors.New("dockerfile not found")

// Client wraps container engine operations (build, tag, push, run).
type Client struct {
	run execx.Runner
}

// NewClient returns a Client backed by the given runner.
func NewClient(run execx.Runner) *Client {
	return &Client{run: run}
}

// Installed reports whether the container engine is available.
func (c *Client) Installed() bool {
	return c.run.LookPath("docker")
}

// BuildOptions configures an image build.
type BuildOptions struct {
	// Dockerfile path; defaults to "Dockerfile".
	Dockerfile string
	// Context is the build context path; defaults to ".".
	Context string
	// Name is the image reference to produce. Empty synthesizes
	// <current-directory-name>:<current-version>.
	Name string
	// BuildArgs become repeated --build-arg key=value flags.
	BuildArgs map[string]string
	// NoCache disables the engine's layer cache.
	NoCache bool
	// Platform is the target platform (e.g. linux/amd64).
	Platform string
}

// Build builds an image and returns its reference. Engine availability
// and Dockerfile existence are checked up front so each failure mode has
// its own named error instead of an unexplained engine diagnostic.
func (c *Client) Build(opts BuildOptions) (string, error) {
	if opts.Dockerfile == "" {
		opts.Dockerfile = "Dockerfile"
	}
	if opts.Context == "" {
		opts.Context = "."
	}

	if !c.Installed() {
		return "", ErrEngineUnavailable
	}
	if _, err := os.Stat(opts.Dockerfile); err != nil {
		return "", fmt.Errorf("%w at %s", ErrDockerfileNotFound, opts.Dockerfile)
	}

	name := opts.Name
	if name == "" {
		name = DefaultImageName()
	}

	argv := []string{"docker", "build"}
	for _, key := range sortedKeys(opts.BuildArgs) {
		argv = append(argv, "--build-arg", key+"="+opts.BuildArgs[key])
	}
	argv = append(argv, "-t", name, "-f", opts.Dockerfile)
	if opts.NoCache {
		argv = append(argv, "--no-cache")
	}
	if opts.Platform != "" {
		argv = append(argv, "--platform", opts.Platform)
	}
	argv = append(argv, opts.Context)

	if _, err := c.run.Run(argv); err != nil {
		return "", fmt.Errorf("docker build failed: %w", err)
	}
	return name, nil
}

// Tag applies each tag to the source image, best effort. It returns the
// tags that succeeded and a per-tag error list for the ones that did not.
func (c *Client) Tag(source string, tags []string) ([]string, []error) {
	var tagged []string
	var errs []error
	for _, tag := range tags {
		if _, err := c.run.Run([]string{"docker", "tag", source, tag}); err != nil {
			errs = append(errs, fmt.Errorf("tag %s as %s: %w", source, tag, err))
			continue
		}
		tagged = append(tagged, tag)
	}
	return tagged, errs
}

// Push pushes each tag to its registry, best effort, and returns the
// tags that succeeded plus per-tag errors.
func (c *Client) Push(tags []string) ([]string, []error) {
	var pushed []string
	var errs []error
	for _, tag := range tags {
		if _, err := c.run.Run([]string{"docker", "push", tag}); err != nil {
			errs = append(errs, fmt.Errorf("push %s: %w", tag, err))
			continue
		}
		pushed = append(pushed, tag)
	}
	return pushed, errs
}

// DefaultImageName synthesizes <current-directory-name>:<current-version>.
func DefaultImageName() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "image"
	}
	resolver := &semver.Resolver{}
	return filepath.Base(cwd) + ":" + resolver.Current().String()
}

// SanitizeReference converts an image reference into a filename-safe
// string (registry/name:tag -> registry_name_tag).
func SanitizeReference(image string) string {
	replacer := strings.NewReplacer("/", "_", ":", "_")
	return replacer.Replace(image)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
