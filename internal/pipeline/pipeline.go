// Package pipeline orchestrates the secure image-delivery sequence:
// build, test, scan, SBOM, policy check, tag, sign, push. Stages run
// strictly in order, each gated on the previous one; fatal stages halt
// the run, best-effort stages record their failure and continue. The
// accumulated per-stage results are returned no matter where the
// sequence stopped.
package pipeline

import (
	"fmt"

	"github.com/chainward/devkit/internal/config"
	"github.com/chainward/devkit/internal/docker"
	"github.com/chainward/devkit/internal/execx"
	"github.com/chainward/devkit/internal/semver"
)

// Stage names, in execution order.
const (
	StageBuild  = "build"
	StageTest   = "test"
	StageScan   = "scan"
	StageSBOM   = "sbom"
	StagePolicy = "policy"
	StageTag    = "tag"
	StageSign   = "sign"
	StagePush   = "push"
)

// Builder builds an image and returns its reference.
type Builder interface {
	Build(opts docker.BuildOptions) (string, error)
}

// Tester probes an image in an ephemeral container.
type Tester interface {
	Test(image string, command []string) (bool, string)
}

// Scanner scans an image for vulnerabilities.
type Scanner interface {
	Scan(image, format string) (*docker.ScanReport, error)
}

// SBOMWriter generates a software bill of materials.
type SBOMWriter interface {
	Generate(image, outputPath, format string) (string, error)
}

// PolicyChecker evaluates a manifest against policy files.
type PolicyChecker interface {
	Check(manifest string, policies []string) (*docker.PolicyReport, error)
}

// TagGenerator derives the registry tag set.
type TagGenerator interface {
	Generate(base string, v semver.Version, opts docker.TagOptions) []string
}

// ImageTagger applies tags and pushes them, best effort per tag.
type ImageTagger interface {
	Tag(source string, tags []string) ([]string, []error)
	Push(tags []string) ([]string, []error)
}

// Signer signs an image reference.
type Signer interface {
	Sign(image, keyPath string) (string, error)
}

// Request configures one pipeline run.
type Request struct {
	Dockerfile string
	Context    string
	// Name is the image reference to build; empty synthesizes
	// <directory>:<version>.
	Name string
	// Registry is the tag base (e.g. ghcr.io/org/app). Tagging and
	// pushing only happen when it is set.
	Registry   string
	BuildArgs  map[string]string
	NoCache    bool
	Platform   string
	TestCmd    []string
	SBOMFormat string
	// PolicyFiles plus K8sManifest enable the policy stage.
	PolicyFiles []string
	K8sManifest string
	// SigningKey selects key-based signing; empty means keyless.
	SigningKey    string
	Push          bool
	IncludeLatest bool
	Chainguard    bool
}

// Pipeline holds the stage collaborators. Tests substitute fakes; the
// zero value of any field disables nothing — all fields are required.
type Pipeline struct {
	Builder Builder
	Tester  Tester
	Scanner Scanner
	SBOM    SBOMWriter
	Policy  PolicyChecker
	Tags    TagGenerator
	Images  ImageTagger
	Signer  Signer

	// Version supplies the current project version for tag derivation.
	Version func() semver.Version

	// Logf receives one status line per stage. Defaults to fmt.Printf.
	Logf func(format string, args ...any)
}

// New wires a Pipeline from the real tool wrappers.
func New(run execx.Runner, cfg *config.Config) *Pipeline {
	client := docker.NewClient(run)
	resolver := &semver.Resolver{}
	return &Pipeline{
		Builder: client,
		Tester:  client,
		Scanner: docker.NewScanner(run),
		SBOM:    docker.NewSBOMGenerator(run, cfg.SBOM.Dir),
		Policy:  docker.NewPolicyChecker(run),
		Tags:    docker.NewTagGenerator(run),
		Images:  client,
		Signer:  docker.NewSigner(run),
		Version: resolver.Current,
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
		return
	}
	fmt.Printf(format, args...)
}

// Run executes the pipeline and returns the accumulated results.
//
// Fatality per stage: build, test, and scan halt the run; SBOM and sign
// failures are recorded as warnings; a failed policy check does not halt
// tag/sign/push (it is reflected in the exit code instead); tag halts
// when a registry was requested but no tag could be applied; push
// failures are recorded per tag and never halt.
func (p *Pipeline) Run(req Request) *Results {
	results := NewResults()

	// Build (fatal)
	image, err := p.Builder.Build(docker.BuildOptions{
		Dockerfile: req.Dockerfile,
		Context:    req.Context,
		Name:       req.Name,
		BuildArgs:  req.BuildArgs,
		NoCache:    req.NoCache,
		Platform:   req.Platform,
	})
	if err != nil {
		results.Record(StageBuild, false, err.Error())
		p.logf("❌ Build failed: %v\n", err)
		return results
	}
	results.Record(StageBuild, true, image)
	p.logf("✅ Built image %s\n", image)

	// Test (fatal)
	passed, output := p.Tester.Test(image, req.TestCmd)
	results.Record(StageTest, passed, output)
	if !passed {
		p.logf("❌ Image test failed: %s\n", output)
		return results
	}
	p.logf("✅ Image test passed\n")

	// Scan (fatal: critical vulnerabilities block progress)
	scan, err := p.Scanner.Scan(image, "json")
	if err != nil {
		results.Record(StageScan, false, err.Error())
		p.logf("❌ Vulnerability scan failed: %v\n", err)
		return results
	}
	results.Record(StageScan, scan.Passed, scan)
	if !scan.Passed {
		p.logf("❌ Critical vulnerabilities found (CRITICAL: %d)\n", scan.Counts[docker.SeverityCritical])
		return results
	}
	p.logf("✅ No critical vulnerabilities\n")

	// SBOM (non-fatal)
	if sbomPath, err := p.SBOM.Generate(image, "", req.SBOMFormat); err != nil {
		results.Record(StageSBOM, false, err.Error())
		p.logf("⚠️  SBOM generation failed: %v\n", err)
	} else {
		results.Record(StageSBOM, true, sbomPath)
		p.logf("✅ SBOM written to %s\n", sbomPath)
	}

	// Policy check (recorded; does not gate the remaining stages)
	if req.K8sManifest != "" && len(req.PolicyFiles) > 0 {
		if report, err := p.Policy.Check(req.K8sManifest, req.PolicyFiles); err != nil {
			results.Record(StagePolicy, false, err.Error())
			p.logf("⚠️  Policy check failed to run: %v\n", err)
		} else {
			results.Record(StagePolicy, report.Passed, report)
			if report.Passed {
				p.logf("✅ Policy checks passed (%d policies)\n", len(report.Results))
			} else {
				p.logf("❌ Policy checks failed\n")
			}
		}
	}

	// Tag (fatal, only entered when a registry was specified)
	signTarget := image
	var tags []string
	if req.Registry != "" {
		tags = p.Tags.Generate(req.Registry, p.Version(), docker.TagOptions{
			IncludeLatest: req.IncludeLatest,
			Chainguard:    req.Chainguard,
		})
		tagged, errs := p.Images.Tag(image, tags)
		for _, tagErr := range errs {
			p.logf("⚠️  %v\n", tagErr)
		}
		if len(tagged) == 0 {
			results.Record(StageTag, false, "failed to apply any tag")
			p.logf("❌ Tagging failed\n")
			return results
		}
		results.Record(StageTag, true, tagged)
		p.logf("✅ Tagged %d image references\n", len(tagged))

		// The full version tag is the canonical reference to sign.
		signTarget = tags[0]
	}

	// Sign (non-fatal)
	if _, err := p.Signer.Sign(signTarget, req.SigningKey); err != nil {
		results.Record(StageSign, false, err.Error())
		p.logf("⚠️  Signing failed: %v\n", err)
	} else {
		results.Record(StageSign, true, signTarget)
		p.logf("✅ Signed %s\n", signTarget)
	}

	// Push (only when requested; failures recorded, never thrown)
	if req.Push && req.Registry != "" {
		pushed, errs := p.Images.Push(tags)
		for _, pushErr := range errs {
			p.logf("⚠️  %v\n", pushErr)
		}
		results.Record(StagePush, len(errs) == 0, pushed)
		p.logf("✅ Pushed %d of %d image references\n", len(pushed), len(tags))
	}

	return results
}
