// Command demo wires every C1-C9 component together and runs the
// test-generator happy path end to end against in-memory collaborators
// (spec §8 scenario 1: a SCRUM-style story produces a draft test, gated on
// approval, then approved and reaches SUCCEEDED).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
	"github.com/singh24honey/qa-automation-framework-sub005/agent/planner"
	"github.com/singh24honey/qa-automation-framework-sub005/approval"
	"github.com/singh24honey/qa-automation-framework-sub005/breaker"
	"github.com/singh24honey/qa-automation-framework-sub005/collab/issuetracker"
	"github.com/singh24honey/qa-automation-framework-sub005/collab/notify"
	"github.com/singh24honey/qa-automation-framework-sub005/config"
	"github.com/singh24honey/qa-automation-framework-sub005/dispatch"
	"github.com/singh24honey/qa-automation-framework-sub005/elementregistry"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway"
	"github.com/singh24honey/qa-automation-framework-sub005/llmgateway/provider"
	"github.com/singh24honey/qa-automation-framework-sub005/store/inmem"
	"github.com/singh24honey/qa-automation-framework-sub005/telemetry"
	"github.com/singh24honey/qa-automation-framework-sub005/tools"
)

const generatedIntent = `{"className":"LoginPage","testClassName":"LoginTest","steps":[
  {"action":"NAVIGATE","value":"/login"},
  {"action":"FILL","locator":"testid=username","value":"alice"},
  {"action":"CLICK","locator":"testid=login-button"},
  {"action":"ASSERT_URL","value":"/dashboard"}
]}`

func main() {
	root := &cobra.Command{
		Use:   "demo",
		Short: "Run the test-generator agent against an in-memory stack",
	}
	root.AddCommand(newGenerateCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var storyKey string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a draft test for a story and approve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), storyKey)
		},
	}
	cmd.Flags().StringVar(&storyKey, "story", "SCRUM-7", "issue tracker story key")
	return cmd
}

func runGenerate(ctx context.Context, storyKey string) error {
	cfg := config.Default()
	logger := telemetry.NewNoopLogger()
	tracer := telemetry.NewNoopTracer()

	tracker := issuetracker.New(llmgateway.Story{
		Key:                storyKey,
		Summary:            "User can log in with email and password",
		Description:        "As a user, I want to log in so that I can access my dashboard.",
		AcceptanceCriteria: []string{"Given valid credentials, when I submit the login form, then I land on the dashboard"},
	})
	notifier := notify.New()

	mockProvider := provider.NewMock(provider.Response{
		Text:             generatedIntent,
		PromptTokens:     200,
		CompletionTokens: 80,
	})
	limiter := llmgateway.NewRateLimiter(cfg.RateLimit)
	sanitizer := llmgateway.NewSanitizer()
	gateway := llmgateway.NewGateway(
		limiter, sanitizer,
		map[string]provider.Provider{"mock": mockProvider}, "mock",
		nil, llmgateway.DefaultCostTable(), llmgateway.NewInMemoryUsageRecorder(),
		logger, nil,
	)

	registry := tools.NewRegistry(logger)
	registerDraftWriterTool(registry)
	dispatcher := dispatch.New(registry, breaker.New(breaker.DefaultConfig()), logger, tracer)

	approvals := approval.New(nil)
	sweeper, err := approval.NewSweeper(approvals, "", logger)
	if err != nil {
		return fmt.Errorf("demo: start sweeper: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	store := inmem.New()
	executor := agent.NewExecutor(store, dispatcher, approvals, logger, tracer)

	gen := planner.NewTestGenerator(gateway, elementregistry.Registry{}, tracker.FetchStory, cfg.Storage.DraftsRoot)
	plannerCfg := planner.TestGeneratorConfig()

	exec := agent.NewExecution(agent.KindTestGenerator, "generate_test", map[string]any{"story_key": storyKey}, "demo-user")

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- executor.Run(runCtx, exec, gen, plannerCfg, registry.Catalog()) }()

	if err := waitForApprovalAndDecide(runCtx, approvals, exec); err != nil {
		return err
	}

	if err := <-runErrCh; err != nil {
		return fmt.Errorf("demo: execution failed: %w", err)
	}

	fmt.Printf("execution %s finished with status %s (iterations=%d, cost=%.4f)\n",
		exec.ID, exec.Status, exec.IterationsUsed, exec.CostAccumulated)

	_ = notifier.Notify(ctx, "demo-console", map[string]any{
		"execution_id": exec.ID,
		"status":       string(exec.Status),
	})
	return nil
}

// waitForApprovalAndDecide polls the execution until it suspends on
// approval, then approves the pending request — standing in for a human
// reviewer clicking "approve" in a real deployment.
func waitForApprovalAndDecide(ctx context.Context, approvals *approval.Engine, exec *agent.Execution) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("demo: timed out waiting for approval request")
		case <-ticker.C:
			if exec.PendingApprovalID == "" {
				continue
			}
			if err := approvals.Approve(exec.PendingApprovalID, "demo-reviewer", "looks good"); err != nil {
				if err == approval.ErrNotPending {
					return nil
				}
				return fmt.Errorf("demo: approve request: %w", err)
			}
			return nil
		}
	}
}

// registerDraftWriterTool registers the one tool the demo needs: writing
// the generated draft test's source to the in-memory "filesystem" (stdout,
// for this demo) once approved.
func registerDraftWriterTool(registry *tools.Registry) {
	_ = registry.Register(context.Background(), &tools.Tool{
		ActionType:  "write_draft_test",
		DisplayName: "Write Draft Test",
		Description: "Writes a generated draft test file to the drafts directory.",
		Params: map[string]tools.ParamSchema{
			"path":    {Type: "string", Required: true, Description: "destination file path"},
			"content": {Type: "string", Required: true, Description: "generated Go test source"},
		},
		Execute: func(ctx context.Context, params map[string]any) (map[string]any, error) {
			path, _ := params["path"].(string)
			content, _ := params["content"].(string)
			fmt.Printf("--- would write %s (%d bytes) ---\n", path, len(content))
			return map[string]any{"success": true}, nil
		},
	})
}
