// Package tools implements the Tool Registry (spec §4.1): the mapping from
// an action type to the tool that handles it, a catalog renderer suitable
// for embedding verbatim in LLM planner prompts, and syntactic categorization
// for UI listings.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/singh24honey/qa-automation-framework-sub005/telemetry"
)

// ActionType identifies the capability a Tool handles (e.g. "commit",
// "execute_test", "fetch_story"). Action types are the only thing the
// registry, breaker, and dispatcher key off of; they never know which
// external collaborator a tool wraps.
type ActionType string

// ParamSchema describes one parameter of a tool's input, in the
// human-readable form spec §4.1 says the catalog must render: a type name,
// whether it is required, and a description.
type ParamSchema struct {
	Type        string
	Required    bool
	Description string
}

// ExecuteFunc performs the tool's capability. It returns an outcome map
// (spec §4.3: "a mapping containing at minimum a boolean `success`") or an
// error if the tool's own execution failed unexpectedly. A tool that wants
// to report success=false should do so via the returned map, not via error;
// error is reserved for exceptional conditions the dispatcher must translate
// (spec §4.3 step 4).
type ExecuteFunc func(ctx context.Context, params map[string]any) (map[string]any, error)

// Tool is a registered capability: one pure function plus a schema
// description, expressed as a plain struct rather than a class hierarchy
// (spec §9 design note: "Dynamic dispatch without inheritance").
type Tool struct {
	ActionType  ActionType
	DisplayName string
	Description string
	// Params maps parameter name to its schema, used both for prompt catalog
	// rendering and for the dispatcher's own lightweight validation.
	Params  map[string]ParamSchema
	Execute ExecuteFunc
}

// Validate checks that params satisfies the tool's required-parameter schema.
// This is the "tool's own schema-aware check" spec §4.3 step 3 refers to.
func (t *Tool) Validate(params map[string]any) error {
	var missing []string
	for name, schema := range t.Params {
		if !schema.Required {
			continue
		}
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Category buckets a tool for UI listing purposes. Categorization is purely
// syntactic (spec §4.1): it is derived from the action-type name and carries
// no behavioral weight, so a tool may be recategorized without changing how
// it dispatches.
type Category string

const (
	CategoryDataRetrieval  Category = "data_retrieval"
	CategoryAIOperations   Category = "ai_operations"
	CategoryGitOperations  Category = "git_operations"
	CategoryTestExecution  Category = "test_execution"
	CategoryFileOperations Category = "file_operations"
	CategoryApproval       Category = "approval_workflow"
	CategoryIssueTracker   Category = "issue_tracker_integration"
	CategoryOther          Category = "other"
)

var categoryPrefixes = []struct {
	prefix string
	cat    Category
}{
	{"fetch_story", CategoryIssueTracker},
	{"query_element_registry", CategoryDataRetrieval},
	{"read_file", CategoryFileOperations},
	{"write_file", CategoryFileOperations},
	{"delete_file", CategoryFileOperations},
	{"update_element_registry", CategoryFileOperations},
	{"commit", CategoryGitOperations},
	{"open-pr", CategoryGitOperations},
	{"open_pr", CategoryGitOperations},
	{"create-branch", CategoryGitOperations},
	{"create_branch", CategoryGitOperations},
	{"merge-pr", CategoryGitOperations},
	{"merge_pr", CategoryGitOperations},
	{"branch_exists", CategoryGitOperations},
	{"execute_test", CategoryTestExecution},
	{"capture_page_html", CategoryTestExecution},
	{"extract_broken_locator", CategoryAIOperations},
	{"discover_locator", CategoryAIOperations},
	{"generate", CategoryAIOperations},
	{"analyze", CategoryAIOperations},
	{"approve", CategoryApproval},
	{"reject", CategoryApproval},
	{"request_approval", CategoryApproval},
}

// categorize derives a Category from an ActionType using the syntactic
// prefix/substring mapping spec §4.1 describes. Unmatched action types fall
// back to CategoryOther.
func categorize(at ActionType) Category {
	s := string(at)
	for _, p := range categoryPrefixes {
		if strings.Contains(s, p.prefix) {
			return p.cat
		}
	}
	return CategoryOther
}

// Registry maintains the action-type -> Tool mapping.
type Registry struct {
	mu     sync.RWMutex
	byType map[ActionType]*Tool
	logger telemetry.Logger
}

// NewRegistry constructs an empty Registry. A nil logger defaults to a no-op.
func NewRegistry(logger telemetry.Logger) *Registry {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	return &Registry{
		byType: make(map[ActionType]*Tool),
		logger: logger,
	}
}

// Register inserts tool under its ActionType. A conflicting registration
// replaces the previous tool and emits a warning log (spec §4.1/§3: "later
// registration replaces earlier (and logs a warning)").
func (r *Registry) Register(ctx context.Context, t *Tool) error {
	if t == nil {
		return fmt.Errorf("tools: cannot register nil tool")
	}
	if t.ActionType == "" {
		return fmt.Errorf("tools: tool %q missing action type", t.DisplayName)
	}
	if t.Execute == nil {
		return fmt.Errorf("tools: tool %q missing execute function", t.ActionType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byType[t.ActionType]; exists {
		r.logger.Warn(ctx, "tool registration replaced an existing tool",
			"action_type", string(t.ActionType), "display_name", t.DisplayName)
	}
	r.byType[t.ActionType] = t
	return nil
}

// Lookup returns the tool registered for at, if any.
func (r *Registry) Lookup(at ActionType) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byType[at]
	return t, ok
}

// List returns all registered tools, sorted by action type for deterministic
// iteration (needed so prompts built from the catalog are reproducible).
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Tool, 0, len(r.byType))
	for _, t := range r.byType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActionType < out[j].ActionType })
	return out
}

// ListByCategory groups all registered tools under their derived Category.
func (r *Registry) ListByCategory() map[Category][]*Tool {
	out := make(map[Category][]*Tool)
	for _, t := range r.List() {
		cat := categorize(t.ActionType)
		out[cat] = append(out[cat], t)
	}
	return out
}

// AvailableActionTypes returns the sorted list of all registered action types.
func (r *Registry) AvailableActionTypes() []ActionType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ActionType, 0, len(r.byType))
	for at := range r.byType {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Catalog renders one block per tool (name, action type, description,
// parameter schema) in a deterministic order, for inclusion verbatim inside
// LLM planner prompts (spec §4.1).
func (r *Registry) Catalog() string {
	var sb strings.Builder
	for _, t := range r.List() {
		fmt.Fprintf(&sb, "### %s (action_type=%s)\n", t.DisplayName, t.ActionType)
		if t.Description != "" {
			fmt.Fprintf(&sb, "%s\n", t.Description)
		}
		if len(t.Params) > 0 {
			names := make([]string, 0, len(t.Params))
			for name := range t.Params {
				names = append(names, name)
			}
			sort.Strings(names)
			sb.WriteString("Parameters:\n")
			for _, name := range names {
				p := t.Params[name]
				req := "optional"
				if p.Required {
					req = "required"
				}
				fmt.Fprintf(&sb, "  - %s (%s, %s): %s\n", name, p.Type, req, p.Description)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
