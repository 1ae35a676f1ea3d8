package git

import (
	"context"
	"fmt"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
	"github.com/singh24honey/qa-automation-framework-sub005/tools"
)

// WorkflowConfig names the repository and base branch a commit tool commits
// against. These are deployment-wide, not per-call, since a single agent
// deployment targets one repository.
type WorkflowConfig struct {
	Owner      string
	Repo       string
	BaseBranch string
}

// NewCommitTool adapts a collab.Git collaborator into the "commit" tool
// FlakyFixer and the other fix-proposing planners dispatch once their
// TriggerGitWorkflow-routed approval is granted (spec §4.5/§4.9): create the
// target branch off BaseBranch if it does not already exist, commit the
// generated file, and open a PR against BaseBranch.
func NewCommitTool(g collab.Git, cfg WorkflowConfig) *tools.Tool {
	return &tools.Tool{
		ActionType:  "commit",
		DisplayName: "Commit Fix",
		Description: "Creates a branch, commits the fix, and opens a PR for review.",
		Params: map[string]tools.ParamSchema{
			"branch":  {Type: "string", Required: true, Description: "branch name to commit to"},
			"path":    {Type: "string", Required: true, Description: "file path to write"},
			"content": {Type: "string", Required: true, Description: "file content"},
			"message": {Type: "string", Required: true, Description: "commit message"},
		},
		Execute: func(ctx context.Context, params map[string]any) (map[string]any, error) {
			branch, _ := params["branch"].(string)
			path, _ := params["path"].(string)
			content, _ := params["content"].(string)
			message, _ := params["message"].(string)

			ref := collab.BranchRef{Owner: cfg.Owner, Repo: cfg.Repo, Name: branch}
			exists, err := g.BranchExists(ctx, ref)
			if err != nil {
				return map[string]any{"success": false, "error": err.Error()}, nil
			}
			if !exists {
				if err := g.CreateBranch(ctx, ref, cfg.BaseBranch); err != nil {
					return map[string]any{"success": false, "error": err.Error()}, nil
				}
			}

			files := []collab.CommitFile{{Path: path, Content: content}}
			if err := g.Commit(ctx, ref, message, files); err != nil {
				return map[string]any{"success": false, "error": err.Error()}, nil
			}

			pr, err := g.OpenPR(ctx, ref, cfg.BaseBranch, message, fmt.Sprintf("Automated fix for %s.", path))
			if err != nil {
				return map[string]any{"success": false, "error": err.Error()}, nil
			}
			return map[string]any{"success": true, "pr_number": pr.Number, "pr_url": pr.URL}, nil
		},
	}
}
