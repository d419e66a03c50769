package pipeline

import "encoding/json"

// StageResult records one stage's outcome. Output holds the stage's
// payload: the image reference for build, the scan report for scan, the
// applied tag list for tag, and so on.
type StageResult struct {
	Success bool `json:"success"`
	Output  any  `json:"output,omitempty"`
}

// Results maps stage names to their outcomes, preserving execution
// order. Stages the run never reached are simply absent.
type Results struct {
	stages map[string]StageResult
	order  []string
}

// NewResults returns an empty result set.
func NewResults() *Results {
	return &Results{stages: make(map[string]StageResult)}
}

// Record appends a stage outcome.
func (r *Results) Record(stage string, success bool, output any) {
	if _, seen := r.stages[stage]; !seen {
		r.order = append(r.order, stage)
	}
	r.stages[stage] = StageResult{Success: success, Output: output}
}

// Get returns a stage's result and whether the stage was reached.
func (r *Results) Get(stage string) (StageResult, bool) {
	res, ok := r.stages[stage]
	return res, ok
}

// Has reports whether the stage was reached.
func (r *Results) Has(stage string) bool {
	_, ok := r.stages[stage]
	return ok
}

// Succeeded reports whether the stage was reached and succeeded.
func (r *Results) Succeeded(stage string) bool {
	res, ok := r.stages[stage]
	return ok && res.Success
}

// Stages returns the recorded stage names in execution order.
func (r *Results) Stages() []string {
	return append([]string(nil), r.order...)
}

// ExitCode maps the results to the process exit code. Only build, scan,
// and policy count: failures elsewhere are visible in the output but do
// not change the exit code, so callers relying solely on the exit code
// can miss a failed test, sign, or push step. That asymmetry is kept
// deliberately for compatibility with existing CI gates.
func (r *Results) ExitCode() int {
	for _, stage := range []string{StageBuild, StageScan, StagePolicy} {
		if res, ok := r.stages[stage]; ok && !res.Success {
			return 1
		}
	}
	return 0
}

// MarshalJSON renders the stage mapping as a JSON object.
func (r *Results) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.stages)
}
