package docker

import (
	"errors"
	"fmt"
	"os"

	"github.com/chainward/devkit/internal/execx"
)

// ErrKeylessRequiresCI indicates keyless signing was requested outside a
// recognized CI environment. Keyless mode needs an ambient OIDC identity
// that only the CI provider supplies.
var ErrKeylessRequiresCI = errors.New("keyless signing requires a CI environment (or pass --key)")

// Signer signs and verifies image signatures with cosign.
type Signer struct {
	run    execx.Runner
	getenv func(string) string
}

// NewSigner returns a Signer backed by the given runner.
func NewSigner(run execx.Runner) *Signer {
	return &Signer{run: run, getenv: os.Getenv}
}

// inCI reports whether a recognized CI environment is present.
func (s *Signer) inCI() bool {
	return s.getenv("CI") != "" || s.getenv("GITHUB_ACTIONS") != ""
}

// Sign signs the image. With an empty keyPath, keyless signing is used
// and is only permitted inside CI.
func (s *Signer) Sign(image, keyPath string) (string, error) {
	if !s.run.LookPath("cosign") {
		return "", &execx.ToolNotFoundError{Tool: "cosign"}
	}

	var argv []string
	if keyPath == "" {
		if !s.inCI() {
			return "", ErrKeylessRequiresCI
		}
		argv = []string{"cosign", "sign", "--yes", image}
	} else {
		argv = []string{"cosign", "sign", "--key", keyPath, image}
	}

	result, err := s.run.Run(argv)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", image, err)
	}
	return result.Stdout, nil
}

// Verify checks the image signature. Unlike Sign, keyless verification
// is allowed anywhere.
func (s *Signer) Verify(image, keyPath string) (string, error) {
	if !s.run.LookPath("cosign") {
		return "", &execx.ToolNotFoundError{Tool: "cosign"}
	}

	argv := []string{"cosign", "verify"}
	if keyPath != "" {
		argv = append(argv, "--key", keyPath)
	}
	argv = append(argv, image)

	result, err := s.run.Run(argv)
	if err != nil {
		return "", fmt.Errorf("verify %s: %w", image, err)
	}
	return result.Stdout, nil
}
