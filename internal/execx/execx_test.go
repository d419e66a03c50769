package execx

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	r := NewRunner()

	result, err := r.Run([]string{"sh", "-c", "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.True(t, result.Succeeded())
}

func TestRunNonzeroExitReturnsExitError(t *testing.T) {
	r := NewRunner()

	result, err := r.Run([]string{"sh", "-c", "echo boom >&2; exit 3"})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Contains(t, exitErr.Stderr, "boom")
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Succeeded())
}

func TestRunMissingProgram(t *testing.T) {
	r := NewRunner()

	result, err := r.Run([]string{"devkit-no-such-program-xyz"})
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
}

func TestRunEmptyCommand(t *testing.T) {
	r := NewRunner()

	_, err := r.Run(nil)
	require.Error(t, err)
}

func TestRunWorkingDir(t *testing.T) {
	r := NewRunner()
	dir := t.TempDir()

	result, err := r.Run([]string{"pwd"}, WithWorkingDir(dir))
	require.NoError(t, err)
	// macOS tempdirs resolve through /private, compare the basename only.
	assert.Contains(t, result.Stdout, filepath.Base(dir))
}

func TestLookPath(t *testing.T) {
	r := NewRunner()
	assert.True(t, r.LookPath("sh"))
	assert.False(t, r.LookPath("devkit-no-such-program-xyz"))
}

func TestFakeMatchesLongestPrefix(t *testing.T) {
	f := NewFake().
		Respond("docker", FakeResponse{Stdout: "generic"}).
		Respond("docker build", FakeResponse{Stdout: "build"})

	result, err := f.Run([]string{"docker", "build", "-t", "x", "."})
	require.NoError(t, err)
	assert.Equal(t, "build", result.Stdout)
	assert.True(t, f.CalledWith("docker build"))
}

func TestFakeMissingTool(t *testing.T) {
	f := NewFake()
	f.Missing = []string{"trivy"}

	assert.False(t, f.LookPath("trivy"))
	assert.True(t, f.LookPath("docker"))
}
