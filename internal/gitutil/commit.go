package gitutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/chainward/devkit/internal/config"
)

// ErrNothingToCommit is returned when the index holds no staged changes.
var ErrNothingToCommit = errors.New("nothing to commit")

// CommitInfo is one entry of the commit history.
type CommitInfo struct {
	Hash    string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// CommitManager validates and creates commits in a repository.
type CommitManager struct {
	repo   *git.Repository
	linter *Linter

	// Author and Email override the repository's configured identity
	// when set.
	Author string
	Email  string
}

// NewCommitManager opens the repository at path and wires the message
// linter with the given rules.
func NewCommitManager(path string, rules config.CommitRules) (*CommitManager, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return &CommitManager{repo: repo, linter: NewLinter(rules)}, nil
}

// Commit validates the message, stages the given files (or everything
// when files is empty) and creates the commit, returning its hash.
func (m *CommitManager) Commit(message string, files []string) (string, error) {
	if err := m.linter.Validate(message); err != nil {
		return "", err
	}

	worktree, err := m.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}

	if len(files) == 0 {
		if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return "", fmt.Errorf("stage all changes: %w", err)
		}
	} else {
		for _, file := range files {
			if _, err := worktree.Add(file); err != nil {
				return "", fmt.Errorf("stage %s: %w", file, err)
			}
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("read worktree status: %w", err)
	}
	if !hasStagedChanges(status) {
		return "", ErrNothingToCommit
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: m.signature(),
	})
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}
	return hash.String(), nil
}

// History returns the most recent commits, newest first.
func (m *CommitManager) History(limit int) ([]CommitInfo, error) {
	if limit <= 0 {
		limit = 10
	}

	iter, err := m.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("read commit log: %w", err)
	}
	defer iter.Close()

	var commits []CommitInfo
	for len(commits) < limit {
		commit, err := iter.Next()
		if err != nil {
			break
		}
		commits = append(commits, CommitInfo{
			Hash:    commit.Hash.String(),
			Message: commit.Message,
			Author:  commit.Author.Name,
			Date:    commit.Author.When,
		})
	}
	return commits, nil
}

func (m *CommitManager) signature() *object.Signature {
	name, email := m.Author, m.Email
	if name == "" || email == "" {
		if cfg, err := m.repo.ConfigScoped(gitconfig.SystemScope); err == nil {
			if name == "" {
				name = cfg.User.Name
			}
			if email == "" {
				email = cfg.User.Email
			}
		}
	}
	if name == "" {
		name = "devkit"
	}
	if email == "" {
		email = "devkit@localhost"
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

func hasStagedChanges(status git.Status) bool {
	for _, file := range status {
		if file.Staging != git.Untracked && file.Staging != git.Unmodified {
			return true
		}
	}
	return false
}
