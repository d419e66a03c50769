package execx

import "strings"

// FakeResponse is a canned response for a fake command invocation.
type FakeResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	StartErr error
}

// Fake is a scripted Runner for tests. Responses are matched by the
// longest registered argv prefix; unmatched commands succeed with empty
// output so tests only script what they care about.
type Fake struct {
	// Missing lists tools LookPath should report as absent.
	Missing []string

	responses map[string]FakeResponse

	// Calls records every Run invocation in order.
	Calls [][]string
}

// NewFake returns an empty scripted runner.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]FakeResponse)}
}

// Respond registers a canned response for commands starting with prefix,
// e.g. "docker build" or "trivy image".
func (f *Fake) Respond(prefix string, resp FakeResponse) *Fake {
	f.responses[prefix] = resp
	return f
}

// Fail registers a nonzero-exit response with the given stderr.
func (f *Fake) Fail(prefix, stderr string) *Fake {
	return f.Respond(prefix, FakeResponse{ExitCode: 1, Stderr: stderr})
}

// LookPath implements Runner.
func (f *Fake) LookPath(tool string) bool {
	for _, m := range f.Missing {
		if m == tool {
			return false
		}
	}
	return true
}

// Run implements Runner.
func (f *Fake) Run(argv []string, opts ...Option) (*Result, error) {
	f.Calls = append(f.Calls, argv)

	joined := strings.Join(argv, " ")
	var best string
	var resp FakeResponse
	for prefix, r := range f.responses {
		if strings.HasPrefix(joined, prefix) && len(prefix) > len(best) {
			best = prefix
			resp = r
		}
	}

	if resp.StartErr != nil {
		return &Result{ExitCode: -1}, resp.StartErr
	}

	result := &Result{Stdout: resp.Stdout, Stderr: resp.Stderr, ExitCode: resp.ExitCode}
	if resp.ExitCode != 0 {
		return result, &ExitError{Argv: argv, ExitCode: resp.ExitCode, Stderr: resp.Stderr}
	}
	return result, nil
}

// CalledWith reports whether any recorded call starts with prefix.
func (f *Fake) CalledWith(prefix string) bool {
	for _, argv := range f.Calls {
		if strings.HasPrefix(strings.Join(argv, " "), prefix) {
			return true
		}
	}
	return false
}
