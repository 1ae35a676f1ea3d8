// Package collab defines the External Collaborator Contracts (spec §4.9):
// the boundary interfaces the agent core dispatches through for everything
// outside its own process — fetching stories, driving a browser, talking to
// Git, reading secrets, and firing notifications. The core only ever depends
// on these interfaces; concrete adapters live in collab's subpackages.
package collab

import (
	"context"

	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway"
)

// IssueTracker fetches the normalized story a test-generator execution is
// grounded on.
type IssueTracker interface {
	FetchStory(ctx context.Context, key string) (llmgateway.Story, error)
}

// BrowserDriver is the black-box browser automation surface (spec §4.9):
// new_context/navigate/fill/click/select/wait_for/assert_*/content/
// screenshot/close. Every method takes the context-scoped page handle
// returned by NewContext so a driver implementation can multiplex several
// independent browser contexts.
type BrowserDriver interface {
	NewContext(ctx context.Context) (string, error)
	Navigate(ctx context.Context, pageID, url string) error
	Fill(ctx context.Context, pageID, selector, value string) error
	Click(ctx context.Context, pageID, selector string) error
	Select(ctx context.Context, pageID, selector, value string) error
	WaitFor(ctx context.Context, pageID, selector string) error
	AssertVisible(ctx context.Context, pageID, selector string) error
	AssertText(ctx context.Context, pageID, selector, want string) error
	AssertURL(ctx context.Context, pageID, want string) error
	Content(ctx context.Context, pageID string) (string, error)
	Screenshot(ctx context.Context, pageID string) ([]byte, error)
	Close(ctx context.Context, pageID string) error
}

// BranchRef identifies a commit target within a Git repository.
type BranchRef struct {
	Owner string
	Repo  string
	Name  string
}

// CommitFile is a single path/content pair to write in a commit.
type CommitFile struct {
	Path    string
	Content string
}

// PullRequest is what Git.OpenPR returns, the minimum the approval engine
// and notification layer need to surface to a human reviewer.
type PullRequest struct {
	Number int
	URL    string
}

// Git is the source-control collaborator (spec §4.9): create_branch/
// commit/open_pr/branch_exists/delete_branch/validate.
type Git interface {
	CreateBranch(ctx context.Context, ref BranchRef, fromBranch string) error
	Commit(ctx context.Context, ref BranchRef, message string, files []CommitFile) error
	OpenPR(ctx context.Context, ref BranchRef, baseBranch, title, body string) (PullRequest, error)
	BranchExists(ctx context.Context, ref BranchRef) (bool, error)
	DeleteBranch(ctx context.Context, ref BranchRef) error
	Validate(ctx context.Context, ref BranchRef) error
}

// Secrets resolves a named secret to its value. Implementations may be
// mocked in tests; the core never logs the returned value.
type Secrets interface {
	Get(ctx context.Context, key string) (string, error)
}

// Notification is a best-effort, fire-and-forget delivery channel. A
// Notify error indicates the send could not even be attempted (e.g. no
// such channel configured); delivery failures downstream of that are not
// surfaced to the caller.
type Notification interface {
	Notify(ctx context.Context, channel string, payload map[string]any) error
}
