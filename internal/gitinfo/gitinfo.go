// Package gitinfo is the Repository Scanner's read-only git metadata
// collaborator: it reports HEAD SHA, branch and commit subject for an
// already-checked-out working tree. It never clones, fetches or writes to
// a repository — that remains outside this module's scope.
package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// Info is the git metadata the scanner attaches to a core.Repository.
type Info struct {
	Branch      string
	HeadSHA     string
	HeadSubject string
}

// Read opens the git repository at root and extracts HEAD metadata. It
// returns a zero Info, not an error, when root is not a git working tree —
// wikigen can still operate on a plain directory.
func Read(root string) (Info, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return Info{}, nil
		}
		return Info{}, fmt.Errorf("failed to open git repository at %s: %w", root, err)
	}

	head, err := repo.Head()
	if err != nil {
		return Info{}, nil
	}

	info := Info{HeadSHA: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	commit, err := repo.CommitObject(head.Hash())
	if err == nil {
		info.HeadSubject = firstLine(commit.Message)
	}
	return info, nil
}

// Diff returns the set of paths added, modified, and deleted between two
// commit SHAs, used by the scanner to compute an incremental core.ScanDiff
// without re-hashing the entire working tree.
func Diff(root, fromSHA, toSHA string) (added, modified, deleted []string, err error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open git repository at %s: %w", root, err)
	}

	oldCommit, err := repo.CommitObject(plumbing.NewHash(fromSHA))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not find commit %s: %w", fromSHA, err)
	}
	newCommit, err := repo.CommitObject(plumbing.NewHash(toSHA))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not find commit %s: %w", toSHA, err)
	}

	oldTree, err := oldCommit.Tree()
	if err != nil {
		return nil, nil, nil, err
	}
	newTree, err := newCommit.Tree()
	if err != nil {
		return nil, nil, nil, err
	}

	changes, err := object.DiffTree(oldTree, newTree)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, change := range changes {
		action, aErr := change.Action()
		if aErr != nil {
			continue
		}
		switch action {
		case merkletrie.Insert:
			added = append(added, change.To.Name)
		case merkletrie.Modify:
			modified = append(modified, change.To.Name)
		case merkletrie.Delete:
			deleted = append(deleted, change.From.Name)
		}
	}
	return added, modified, deleted, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
