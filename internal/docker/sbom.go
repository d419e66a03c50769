package docker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainward/devkit/internal/execx"
)

// ErrNoSBOMTool indicates neither the primary nor the fallback SBOM
// generator is installed.
var ErrNoSBOMTool = errors.New("no SBOM tool found (install syft or trivy)")

// SBOMGenerator produces software bills of materials for images.
// syft is the primary tool; trivy is the fallback when syft is absent.
type SBOMGenerator struct {
	run execx.Runner

	// Dir is where generated files land when no output path is given.
	Dir string
}

// NewSBOMGenerator returns a generator writing defaults under dir.
func NewSBOMGenerator(run execx.Runner, dir string) *SBOMGenerator {
	return &SBOMGenerator{run: run, Dir: dir}
}

// Generate writes an SBOM for the image and returns the output path.
// Formats: spdx-json (default), cyclonedx-json.
func (g *SBOMGenerator) Generate(image, outputPath, format string) (string, error) {
	if format == "" {
		format = "spdx-json"
	}
	if outputPath == "" {
		if err := os.MkdirAll(g.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create SBOM output dir: %w", err)
		}
		outputPath = filepath.Join(g.Dir, SanitizeReference(image)+".sbom.json")
	}

	switch {
	case g.run.LookPath("syft"):
		argv := []string{"syft", image, "-o", format, "--file", outputPath}
		if _, err := g.run.Run(argv); err != nil {
			return "", fmt.Errorf("syft SBOM generation failed: %w", err)
		}
	case g.run.LookPath("trivy"):
		argv := []string{"trivy", "image", "--format", format, "--output", outputPath, image}
		if _, err := g.run.Run(argv); err != nil {
			return "", fmt.Errorf("trivy SBOM generation failed: %w", err)
		}
	default:
		return "", ErrNoSBOMTool
	}

	return outputPath, nil
}
