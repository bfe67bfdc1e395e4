package gitrepo

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// A local git working tree.
type Repo struct {
	repo *git.Repository
	path string
}

// Opens the repository containing the given working tree path.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	return &Repo{repo: repo, path: path}, nil
}

// Returns the working tree path.
func (r *Repo) Path() string {
	return r.path
}

// Reports the current position of the working tree: the short branch name
// when a branch is checked out, otherwise the commit hash of the detached
// HEAD. The returned string round-trips through Checkout.
func (r *Repo) Position(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

// Moves the working tree to a revision.
//
// A revision naming a local branch is checked out as that branch; anything
// else (tag, commit hash, rev expression) is resolved and checked out
// detached.
func (r *Repo) Checkout(ctx context.Context, revision string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	branch := plumbing.NewBranchReferenceName(revision)
	if _, err := r.repo.Reference(branch, true); err == nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: branch}); err != nil {
			return fmt.Errorf("checking out branch %s: %w", revision, err)
		}
		return nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return fmt.Errorf("resolving %s: %w", revision, err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return fmt.Errorf("checking out %s: %w", revision, err)
	}
	return nil
}

// Materializes nested source dependencies at the versions recorded by the
// checked-out revision.
func (r *Repo) SyncSubmodules(ctx context.Context) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	subs, err := wt.Submodules()
	if err != nil {
		return fmt.Errorf("listing submodules: %w", err)
	}

	for _, sub := range subs {
		if err := sub.UpdateContext(ctx, &git.SubmoduleUpdateOptions{
			Init:              true,
			RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
		}); err != nil {
			return fmt.Errorf("updating submodule %s: %w", sub.Config().Name, err)
		}
	}
	return nil
}
