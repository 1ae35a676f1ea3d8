// Package git implements the collab.Git collaborator contract against a
// real GitHub repository using google/go-github.
package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v68/github"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
)

// Adapter implements collab.Git by delegating to go-github's Git data API
// (refs/trees/commits) for branch and commit operations and the pull
// requests API for PR creation.
type Adapter struct {
	gh *github.Client
}

// New creates an Adapter authenticated with the given personal access
// token. Returns nil if token is empty.
func New(token string) *Adapter {
	if token == "" {
		return nil
	}
	return &Adapter{gh: github.NewClient(nil).WithAuthToken(token)}
}

// NewWithClient creates an Adapter from an existing *github.Client, used in
// tests to inject a client pointing at an httptest server.
func NewWithClient(gh *github.Client) *Adapter {
	return &Adapter{gh: gh}
}

var _ collab.Git = (*Adapter)(nil)

// CreateBranch implements collab.Git by creating a ref off fromBranch's
// current commit SHA.
func (a *Adapter) CreateBranch(ctx context.Context, ref collab.BranchRef, fromBranch string) error {
	base, _, err := a.gh.Git.GetRef(ctx, ref.Owner, ref.Repo, "refs/heads/"+fromBranch)
	if err != nil {
		return fmt.Errorf("git: resolve base branch %q: %w", fromBranch, err)
	}
	newRef := &github.Reference{
		Ref:    github.Ptr("refs/heads/" + ref.Name),
		Object: &github.GitObject{SHA: base.Object.SHA},
	}
	_, _, err = a.gh.Git.CreateRef(ctx, ref.Owner, ref.Repo, newRef)
	if err != nil {
		return fmt.Errorf("git: create branch %q: %w", ref.Name, err)
	}
	return nil
}

// Commit implements collab.Git by building a tree from files against the
// branch's current head commit and pointing the branch ref at a new commit
// on top of it.
func (a *Adapter) Commit(ctx context.Context, ref collab.BranchRef, message string, files []collab.CommitFile) error {
	headRef, _, err := a.gh.Git.GetRef(ctx, ref.Owner, ref.Repo, "refs/heads/"+ref.Name)
	if err != nil {
		return fmt.Errorf("git: resolve head of %q: %w", ref.Name, err)
	}
	headCommit, _, err := a.gh.Git.GetCommit(ctx, ref.Owner, ref.Repo, *headRef.Object.SHA)
	if err != nil {
		return fmt.Errorf("git: load head commit: %w", err)
	}

	entries := make([]*github.TreeEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, &github.TreeEntry{
			Path:    github.Ptr(f.Path),
			Mode:    github.Ptr("100644"),
			Type:    github.Ptr("blob"),
			Content: github.Ptr(f.Content),
		})
	}
	tree, _, err := a.gh.Git.CreateTree(ctx, ref.Owner, ref.Repo, *headCommit.Tree.SHA, entries)
	if err != nil {
		return fmt.Errorf("git: create tree: %w", err)
	}

	commit := &github.Commit{
		Message: github.Ptr(message),
		Tree:    tree,
		Parents: []*github.Commit{{SHA: headCommit.SHA}},
	}
	newCommit, _, err := a.gh.Git.CreateCommit(ctx, ref.Owner, ref.Repo, commit, nil)
	if err != nil {
		return fmt.Errorf("git: create commit: %w", err)
	}

	headRef.Object.SHA = newCommit.SHA
	if _, _, err := a.gh.Git.UpdateRef(ctx, ref.Owner, ref.Repo, headRef, false); err != nil {
		return fmt.Errorf("git: update ref %q: %w", ref.Name, err)
	}
	return nil
}

// OpenPR implements collab.Git. PRs are opened as drafts so the approval
// workflow, not GitHub's own merge queue, is the gate that makes them
// ready for review.
func (a *Adapter) OpenPR(ctx context.Context, ref collab.BranchRef, baseBranch, title, body string) (collab.PullRequest, error) {
	pr, _, err := a.gh.PullRequests.Create(ctx, ref.Owner, ref.Repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Head:  github.Ptr(ref.Name),
		Base:  github.Ptr(baseBranch),
		Body:  github.Ptr(body),
		Draft: github.Ptr(true),
	})
	if err != nil {
		return collab.PullRequest{}, fmt.Errorf("git: open PR: %w", err)
	}
	return collab.PullRequest{Number: pr.GetNumber(), URL: pr.GetHTMLURL()}, nil
}

// BranchExists implements collab.Git.
func (a *Adapter) BranchExists(ctx context.Context, ref collab.BranchRef) (bool, error) {
	_, resp, err := a.gh.Repositories.GetBranch(ctx, ref.Owner, ref.Repo, ref.Name, 0)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return false, nil
		}
		return false, fmt.Errorf("git: check branch %q: %w", ref.Name, err)
	}
	return true, nil
}

// DeleteBranch implements collab.Git.
func (a *Adapter) DeleteBranch(ctx context.Context, ref collab.BranchRef) error {
	_, err := a.gh.Git.DeleteRef(ctx, ref.Owner, ref.Repo, "refs/heads/"+ref.Name)
	if err != nil {
		return fmt.Errorf("git: delete branch %q: %w", ref.Name, err)
	}
	return nil
}

// Validate implements collab.Git by confirming the ref's repository is
// reachable and the branch exists.
func (a *Adapter) Validate(ctx context.Context, ref collab.BranchRef) error {
	if a.gh == nil {
		return errors.New("git: adapter not configured with a token")
	}
	exists, err := a.BranchExists(ctx, ref)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("git: branch %q does not exist in %s/%s", ref.Name, ref.Owner, ref.Repo)
	}
	return nil
}
