// Package execx executes external commands and captures their output.
// It is the only place in devkit that talks to the outside world; every
// tool wrapper (docker, trivy, syft, cosign, kyverno, git) goes through
// a Runner so tests can substitute a fake.
//
// There is deliberately no timeout, retry, or cancellation support: devkit
// is a local developer tool and a hung child command hangs the pipeline.
package execx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result holds the output and exit status of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Succeeded reports whether the command exited zero.
func (r *Result) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes external commands.
type Runner interface {
	// Run executes argv[0] with argv[1:] as arguments and returns the
	// captured result. A non-nil error means the command could not be
	// started or exited nonzero; the Result is still populated in the
	// latter case.
	Run(argv []string, opts ...Option) (*Result, error)

	// LookPath reports whether the named tool is on the search path.
	LookPath(tool string) bool
}

// ToolNotFoundError indicates a required external program is absent.
// It is reported distinctly per tool, never conflated with a failed run.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s is not installed or not in PATH", e.Tool)
}

// ExitError indicates the command ran but exited nonzero. The child's
// stderr is preserved verbatim for the caller to surface.
type ExitError struct {
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Argv[0], e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Options configures a single Run call.
type Options struct {
	// Capture collects stdout/stderr into the Result. When false the
	// child inherits the parent's streams and Result output is empty.
	Capture bool

	// WorkingDir runs the command in the given directory.
	WorkingDir string

	// Env holds extra environment variables appended to the current env.
	Env map[string]string

	// StdoutWriter receives a copy of stdout in addition to capture.
	StdoutWriter io.Writer
}

// Option mutates Options.
type Option func(*Options)

// WithConsole runs the command with the parent's stdout/stderr instead
// of capturing.
func WithConsole() Option {
	return func(o *Options) { o.Capture = false }
}

// WithWorkingDir sets the working directory for the command.
func WithWorkingDir(dir string) Option {
	return func(o *Options) { o.WorkingDir = dir }
}

// WithEnv adds environment variables for the command.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string, len(env))
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithStdoutWriter tees captured stdout into w.
func WithStdoutWriter(w io.Writer) Option {
	return func(o *Options) { o.StdoutWriter = w }
}

// Local runs commands on the local machine via os/exec.
type Local struct{}

// NewRunner returns the default local runner.
func NewRunner() *Local {
	return &Local{}
}

// LookPath implements Runner.
func (*Local) LookPath(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

// Run implements Runner.
func (*Local) Run(argv []string, opts ...Option) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	options := Options{Capture: true}
	for _, opt := range opts {
		opt(&options)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}
	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	var stdout, stderr bytes.Buffer
	if options.Capture {
		if options.StdoutWriter != nil {
			cmd.Stdout = io.MultiWriter(&stdout, options.StdoutWriter)
		} else {
			cmd.Stdout = &stdout
		}
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitError{Argv: argv, ExitCode: result.ExitCode, Stderr: result.Stderr}
	default:
		result.ExitCode = -1
		return result, fmt.Errorf("start %s: %w", argv[0], err)
	}
}
