package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
	"github.com/singh24honey/qa-automation-framework-sub005/collab/git"
)

// fakeGit is a hand-rolled collab.Git used to exercise the commit tool
// without talking to GitHub.
type fakeGit struct {
	existingBranches map[string]bool
	created          []collab.BranchRef
	committed        []collab.CommitFile
	openedPR         *collab.PullRequest
	failCommit       error
}

func (f *fakeGit) CreateBranch(ctx context.Context, ref collab.BranchRef, fromBranch string) error {
	f.created = append(f.created, ref)
	if f.existingBranches == nil {
		f.existingBranches = map[string]bool{}
	}
	f.existingBranches[ref.Name] = true
	return nil
}

func (f *fakeGit) Commit(ctx context.Context, ref collab.BranchRef, message string, files []collab.CommitFile) error {
	if f.failCommit != nil {
		return f.failCommit
	}
	f.committed = append(f.committed, files...)
	return nil
}

func (f *fakeGit) OpenPR(ctx context.Context, ref collab.BranchRef, baseBranch, title, body string) (collab.PullRequest, error) {
	pr := collab.PullRequest{Number: 42, URL: "https://example.invalid/pr/42"}
	f.openedPR = &pr
	return pr, nil
}

func (f *fakeGit) BranchExists(ctx context.Context, ref collab.BranchRef) (bool, error) {
	return f.existingBranches[ref.Name], nil
}

func (f *fakeGit) DeleteBranch(ctx context.Context, ref collab.BranchRef) error { return nil }

func (f *fakeGit) Validate(ctx context.Context, ref collab.BranchRef) error { return nil }

var _ collab.Git = (*fakeGit)(nil)

func TestCommitToolCreatesBranchCommitsAndOpensPR(t *testing.T) {
	fg := &fakeGit{}
	tool := git.NewCommitTool(fg, git.WorkflowConfig{Owner: "acme", Repo: "site", BaseBranch: "main"})

	out, err := tool.Execute(context.Background(), map[string]any{
		"branch":  "flaky-fix/exec-1",
		"path":    "drafts/login_test.go",
		"content": "package login_test",
		"message": "fix: stabilize flaky test",
	})
	require.NoError(t, err)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, 42, out["pr_number"])
	require.Len(t, fg.created, 1)
	assert.Equal(t, "flaky-fix/exec-1", fg.created[0].Name)
	require.Len(t, fg.committed, 1)
	assert.Equal(t, "drafts/login_test.go", fg.committed[0].Path)
}

func TestCommitToolSkipsBranchCreateWhenBranchAlreadyExists(t *testing.T) {
	fg := &fakeGit{existingBranches: map[string]bool{"flaky-fix/exec-1": true}}
	tool := git.NewCommitTool(fg, git.WorkflowConfig{Owner: "acme", Repo: "site", BaseBranch: "main"})

	out, err := tool.Execute(context.Background(), map[string]any{
		"branch":  "flaky-fix/exec-1",
		"path":    "drafts/login_test.go",
		"content": "package login_test",
		"message": "fix: stabilize flaky test",
	})
	require.NoError(t, err)
	assert.Equal(t, true, out["success"])
	assert.Empty(t, fg.created)
}

func TestCommitToolReportsCommitFailure(t *testing.T) {
	fg := &fakeGit{failCommit: assertErr("commit rejected")}
	tool := git.NewCommitTool(fg, git.WorkflowConfig{Owner: "acme", Repo: "site", BaseBranch: "main"})

	out, err := tool.Execute(context.Background(), map[string]any{
		"branch":  "flaky-fix/exec-1",
		"path":    "drafts/login_test.go",
		"content": "package login_test",
		"message": "fix: stabilize flaky test",
	})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "commit rejected")
	assert.Nil(t, fg.openedPR)
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func assertErr(msg string) error { return simpleErr(msg) }
