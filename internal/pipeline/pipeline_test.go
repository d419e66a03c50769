package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainward/devkit/internal/docker"
	"github.com/chainward/devkit/internal/semver"
)

// Stage fakes. Each records whether it was invoked so halting behavior
// can be asserted precisely.

type fakeBuilder struct {
	image  string
	err    error
	called bool
}

func (f *fakeBuilder) Build(docker.BuildOptions) (string, error) {
	f.called = true
	return f.image, f.err
}

type fakeTester struct {
	passed bool
	output string
	called bool
}

func (f *fakeTester) Test(string, []string) (bool, string) {
	f.called = true
	return f.passed, f.output
}

type fakeScanner struct {
	report *docker.ScanReport
	err    error
	called bool
}

func (f *fakeScanner) Scan(string, string) (*docker.ScanReport, error) {
	f.called = true
	return f.report, f.err
}

type fakeSBOM struct {
	path   string
	err    error
	called bool
}

func (f *fakeSBOM) Generate(string, string, string) (string, error) {
	f.called = true
	return f.path, f.err
}

type fakePolicy struct {
	report *docker.PolicyReport
	err    error
	called bool
}

func (f *fakePolicy) Check(string, []string) (*docker.PolicyReport, error) {
	f.called = true
	return f.report, f.err
}

type fakeTags struct {
	tags []string
}

func (f *fakeTags) Generate(string, semver.Version, docker.TagOptions) []string {
	return f.tags
}

type fakeImages struct {
	tagged      []string
	tagErrs     []error
	pushed      []string
	pushErrs    []error
	tagCalled   bool
	pushCalled  bool
	taggedFrom  string
	pushedInput []string
}

func (f *fakeImages) Tag(source string, tags []string) ([]string, []error) {
	f.tagCalled = true
	f.taggedFrom = source
	return f.tagged, f.tagErrs
}

func (f *fakeImages) Push(tags []string) ([]string, []error) {
	f.pushCalled = true
	f.pushedInput = tags
	return f.pushed, f.pushErrs
}

type fakeSigner struct {
	err    error
	called bool
	target string
}

func (f *fakeSigner) Sign(image, keyPath string) (string, error) {
	f.called = true
	f.target = image
	return "signed", f.err
}

func silent(string, ...any) {}

// happyPipeline returns a pipeline whose every stage succeeds, plus the
// fakes for per-test adjustment.
func happyPipeline() (*Pipeline, *fakeBuilder, *fakeTester, *fakeScanner, *fakeSBOM, *fakePolicy, *fakeImages, *fakeSigner) {
	builder := &fakeBuilder{image: "app:1.2.3"}
	tester := &fakeTester{passed: true, output: "ok"}
	scanner := &fakeScanner{report: &docker.ScanReport{
		Passed: true,
		Counts: docker.VulnerabilityCounts{docker.SeverityCritical: 0},
	}}
	sbom := &fakeSBOM{path: "sbom-reports/app_1.2.3.sbom.json"}
	policy := &fakePolicy{report: &docker.PolicyReport{Passed: true}}
	images := &fakeImages{
		tagged: []string{"ghcr.io/org/app:1.2.3", "ghcr.io/org/app:1.2"},
		pushed: []string{"ghcr.io/org/app:1.2.3", "ghcr.io/org/app:1.2"},
	}
	signer := &fakeSigner{}

	p := &Pipeline{
		Builder: builder,
		Tester:  tester,
		Scanner: scanner,
		SBOM:    sbom,
		Policy:  policy,
		Tags:    &fakeTags{tags: []string{"ghcr.io/org/app:1.2.3", "ghcr.io/org/app:1.2"}},
		Images:  images,
		Signer:  signer,
		Version: func() semver.Version { return semver.MustParse("1.2.3") },
		Logf:    silent,
	}
	return p, builder, tester, scanner, sbom, policy, images, signer
}

func TestRunAllStagesSucceed(t *testing.T) {
	p, _, _, _, _, _, _, signer := happyPipeline()

	results := p.Run(Request{
		Registry:    "ghcr.io/org/app",
		K8sManifest: "deploy.yml",
		PolicyFiles: []string{"policy.yml"},
		Push:        true,
	})

	assert.Equal(t, []string{"build", "test", "scan", "sbom", "policy", "tag", "sign", "push"}, results.Stages())
	for _, stage := range results.Stages() {
		assert.True(t, results.Succeeded(stage), "stage %s", stage)
	}
	assert.Equal(t, 0, results.ExitCode())
	// The canonical (first) tag is the signing target.
	assert.Equal(t, "ghcr.io/org/app:1.2.3", signer.target)
}

func TestRunBuildFailureHaltsEverything(t *testing.T) {
	p, builder, tester, scanner, _, _, _, _ := happyPipeline()
	builder.image = ""
	builder.err = errors.New("docker build failed: boom")

	results := p.Run(Request{Registry: "ghcr.io/org/app"})

	assert.Equal(t, []string{"build"}, results.Stages())
	assert.False(t, results.Succeeded(StageBuild))
	assert.False(t, tester.called)
	assert.False(t, scanner.called)
	assert.Equal(t, 1, results.ExitCode())
}

func TestRunTestFailureHaltsBeforeScan(t *testing.T) {
	p, _, tester, scanner, _, _, _, _ := happyPipeline()
	tester.passed = false
	tester.output = "exec format error"

	results := p.Run(Request{})

	assert.Equal(t, []string{"build", "test"}, results.Stages())
	assert.True(t, results.Succeeded(StageBuild))
	assert.False(t, results.Succeeded(StageTest))
	assert.False(t, scanner.called)
}

func TestRunCriticalScanHaltsPipeline(t *testing.T) {
	p, _, _, scanner, sbom, policy, images, signer := happyPipeline()
	scanner.report = &docker.ScanReport{
		Passed: false,
		Counts: docker.VulnerabilityCounts{docker.SeverityCritical: 1},
	}

	results := p.Run(Request{
		Registry:    "ghcr.io/org/app",
		K8sManifest: "deploy.yml",
		PolicyFiles: []string{"policy.yml"},
		Push:        true,
	})

	assert.True(t, results.Succeeded(StageBuild))
	assert.True(t, results.Succeeded(StageTest))
	assert.False(t, results.Succeeded(StageScan))

	// Nothing after the fatal stage is present in the mapping.
	for _, stage := range []string{StageSBOM, StagePolicy, StageTag, StageSign, StagePush} {
		assert.False(t, results.Has(stage), "stage %s should be absent", stage)
	}
	assert.False(t, sbom.called)
	assert.False(t, policy.called)
	assert.False(t, images.tagCalled)
	assert.False(t, signer.called)
	assert.Equal(t, 1, results.ExitCode())
}

func TestRunScanErrorIsFatal(t *testing.T) {
	p, _, _, scanner, sbom, _, _, _ := happyPipeline()
	scanner.report = nil
	scanner.err = errors.New("trivy is not installed or not in PATH")

	results := p.Run(Request{})

	assert.False(t, results.Succeeded(StageScan))
	assert.False(t, sbom.called)
	assert.Equal(t, 1, results.ExitCode())
}

func TestRunSBOMFailureDoesNotHalt(t *testing.T) {
	p, _, _, _, sbom, _, images, signer := happyPipeline()
	sbom.path = ""
	sbom.err = docker.ErrNoSBOMTool

	results := p.Run(Request{Registry: "ghcr.io/org/app", Push: true})

	assert.False(t, results.Succeeded(StageSBOM))
	// Later stages still run and are recorded.
	assert.True(t, results.Has(StageTag))
	assert.True(t, results.Has(StageSign))
	assert.True(t, results.Has(StagePush))
	assert.True(t, images.pushCalled)
	assert.True(t, signer.called)
	// SBOM is not a gating stage.
	assert.Equal(t, 0, results.ExitCode())
}

func TestRunPolicyFailureDoesNotHaltButGatesExitCode(t *testing.T) {
	p, _, _, _, _, policy, images, _ := happyPipeline()
	policy.report = &docker.PolicyReport{
		Passed:  false,
		Results: []docker.PolicyResult{{Policy: "strict.yml", Passed: false}},
	}

	results := p.Run(Request{
		Registry:    "ghcr.io/org/app",
		K8sManifest: "deploy.yml",
		PolicyFiles: []string{"strict.yml"},
		Push:        true,
	})

	assert.False(t, results.Succeeded(StagePolicy))
	// Tag, sign, and push still execute after a failed policy check.
	assert.True(t, images.tagCalled)
	assert.True(t, images.pushCalled)
	assert.True(t, results.Has(StageSign))
	// But the exit code reflects the policy failure.
	assert.Equal(t, 1, results.ExitCode())
}

func TestRunPolicyStageSkippedWithoutManifest(t *testing.T) {
	p, _, _, _, _, policy, _, _ := happyPipeline()

	results := p.Run(Request{PolicyFiles: []string{"policy.yml"}})

	assert.False(t, policy.called)
	assert.False(t, results.Has(StagePolicy))
}

func TestRunTagStageSkippedWithoutRegistry(t *testing.T) {
	p, _, _, _, _, _, images, signer := happyPipeline()

	results := p.Run(Request{})

	assert.False(t, images.tagCalled)
	assert.False(t, results.Has(StageTag))
	// Without a registry the built image itself is signed.
	assert.Equal(t, "app:1.2.3", signer.target)
	assert.True(t, results.Has(StageSign))
}

func TestRunTagFailureIsFatal(t *testing.T) {
	p, _, _, _, _, _, images, signer := happyPipeline()
	images.tagged = nil
	images.tagErrs = []error{errors.New("invalid reference")}

	results := p.Run(Request{Registry: "bad//ref", Push: true})

	assert.False(t, results.Succeeded(StageTag))
	assert.False(t, signer.called)
	assert.False(t, results.Has(StagePush))
}

func TestRunSignFailureIsWarning(t *testing.T) {
	p, _, _, _, _, _, images, signer := happyPipeline()
	signer.err = docker.ErrKeylessRequiresCI

	results := p.Run(Request{Registry: "ghcr.io/org/app", Push: true})

	assert.False(t, results.Succeeded(StageSign))
	assert.True(t, images.pushCalled)
	assert.Equal(t, 0, results.ExitCode())
}

func TestRunPushFailuresRecordedNotThrown(t *testing.T) {
	p, _, _, _, _, _, images, _ := happyPipeline()
	images.pushed = []string{"ghcr.io/org/app:1.2.3"}
	images.pushErrs = []error{errors.New("push ghcr.io/org/app:1.2: denied")}

	results := p.Run(Request{Registry: "ghcr.io/org/app", Push: true})

	res, ok := results.Get(StagePush)
	require.True(t, ok)
	assert.False(t, res.Success)
	assert.Equal(t, 0, results.ExitCode())
}

func TestRunPushSkippedUnlessRequested(t *testing.T) {
	p, _, _, _, _, _, images, _ := happyPipeline()

	results := p.Run(Request{Registry: "ghcr.io/org/app"})

	assert.False(t, images.pushCalled)
	assert.False(t, results.Has(StagePush))
}
