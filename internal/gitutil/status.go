package gitutil

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Status summarizes the state of a repository.
type Status struct {
	Branch         string   `json:"branch"`
	Clean          bool     `json:"clean"`
	Untracked      []string `json:"untracked_files"`
	LocalBranches  []string `json:"local_branches"`
	RemoteBranches []string `json:"remote_branches"`
}

// RepoStatus inspects the repository at path.
func RepoStatus(path string) (*Status, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	status := &Status{}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		status.Branch = head.Name().Short()
	} else {
		status.Branch = head.Hash().String()[:7] + " (detached)"
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	wtStatus, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("read worktree status: %w", err)
	}
	status.Clean = wtStatus.IsClean()
	for file, fileStatus := range wtStatus {
		if fileStatus.Worktree == git.Untracked {
			status.Untracked = append(status.Untracked, file)
		}
	}
	sort.Strings(status.Untracked)

	branches, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	_ = branches.ForEach(func(ref *plumbing.Reference) error {
		status.LocalBranches = append(status.LocalBranches, ref.Name().Short())
		return nil
	})
	sort.Strings(status.LocalBranches)

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsRemote() {
			status.RemoteBranches = append(status.RemoteBranches, ref.Name().Short())
		}
		return nil
	})
	sort.Strings(status.RemoteBranches)

	return status, nil
}
