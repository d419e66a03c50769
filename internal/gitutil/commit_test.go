package gitutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainward/devkit/internal/config"
)

// initRepo creates an empty repository and returns its path plus a
// commit manager with a fixed identity.
func initRepo(t *testing.T) (string, *CommitManager) {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	manager, err := NewCommitManager(dir, config.CommitRules{})
	require.NoError(t, err)
	manager.Author = "Test Author"
	manager.Email = "test@example.com"
	return dir, manager
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCommitStagesAllWhenNoFilesGiven(t *testing.T) {
	dir, manager := initRepo(t)
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "b.txt", "b")

	hash, err := manager.Commit("feat: add initial files", nil)
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	status, err := RepoStatus(dir)
	require.NoError(t, err)
	assert.True(t, status.Clean)
}

func TestCommitStagesOnlyNamedFiles(t *testing.T) {
	dir, manager := initRepo(t)
	writeFile(t, dir, "tracked.txt", "in")
	writeFile(t, dir, "loose.txt", "out")

	_, err := manager.Commit("feat: add tracked file", []string{"tracked.txt"})
	require.NoError(t, err)

	status, err := RepoStatus(dir)
	require.NoError(t, err)
	assert.False(t, status.Clean)
	assert.Equal(t, []string{"loose.txt"}, status.Untracked)
}

func TestCommitRejectsInvalidMessage(t *testing.T) {
	dir, manager := initRepo(t)
	writeFile(t, dir, "a.txt", "a")

	_, err := manager.Commit("added some stuff", nil)
	assert.ErrorIs(t, err, ErrInvalidMessage)

	// Nothing was staged or committed.
	status, err := RepoStatus(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, status.Untracked)
}

func TestCommitNothingStaged(t *testing.T) {
	dir, manager := initRepo(t)
	writeFile(t, dir, "a.txt", "a")
	_, err := manager.Commit("feat: first", nil)
	require.NoError(t, err)

	_, err = manager.Commit("feat: second", nil)
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestHistoryNewestFirst(t *testing.T) {
	dir, manager := initRepo(t)
	writeFile(t, dir, "a.txt", "a")
	_, err := manager.Commit("feat: first", nil)
	require.NoError(t, err)
	writeFile(t, dir, "b.txt", "b")
	_, err = manager.Commit("fix: second", nil)
	require.NoError(t, err)

	commits, err := manager.History(10)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "fix: second", commits[0].Message)
	assert.Equal(t, "feat: first", commits[1].Message)
	assert.Equal(t, "Test Author", commits[0].Author)

	limited, err := manager.History(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
