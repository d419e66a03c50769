package docker

import (
	"fmt"

	"github.com/chainward/devkit/internal/execx"
)

// PolicyResult is the outcome of evaluating one policy file.
type PolicyResult struct {
	Policy string `json:"policy"`
	Passed bool   `json:"passed"`
	Output string `json:"output,omitempty"`
}

// PolicyReport aggregates per-policy results; Passed is the logical AND
// over all supplied policy files.
type PolicyReport struct {
	Passed  bool           `json:"passed"`
	Results []PolicyResult `json:"results"`
}

// PolicyChecker evaluates Kubernetes manifests against kyverno policies.
type PolicyChecker struct {
	run execx.Runner
}

// NewPolicyChecker returns a checker backed by the given runner.
func NewPolicyChecker(run execx.Runner) *PolicyChecker {
	return &PolicyChecker{run: run}
}

// Check runs the manifest against each policy file in turn. Every
// individual result is retained for reporting even when an early policy
// fails.
func (p *PolicyChecker) Check(manifest string, policies []string) (*PolicyReport, error) {
	if !p.run.LookPath("kyverno") {
		return nil, &execx.ToolNotFoundError{Tool: "kyverno"}
	}
	if len(policies) == 0 {
		return nil, fmt.Errorf("no policy files supplied")
	}

	report := &PolicyReport{Passed: true}
	for _, policy := range policies {
		result, err := p.run.Run([]string{"kyverno", "apply", policy, "--resource", manifest})

		pr := PolicyResult{Policy: policy, Passed: err == nil}
		if result != nil {
			pr.Output = result.Stdout
			if err != nil && result.Stderr != "" {
				pr.Output = result.Stderr
			}
		}
		if err != nil {
			report.Passed = false
		}
		report.Results = append(report.Results, pr)
	}

	return report, nil
}
