package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/singh24honey/qa-automation-framework-sub005/agent"
)

func TestRequiresApprovalNeverListWinsOverAlwaysList(t *testing.T) {
	cfg := agent.Config{
		ActionsAlwaysRequiringApproval: []string{"commit"},
		ActionsNeverRequiringApproval:  []string{"commit"},
	}
	assert.False(t, cfg.RequiresApproval("commit"))
}

func TestRequiresApprovalDefaults(t *testing.T) {
	cfg := agent.DefaultConfig()
	assert.True(t, cfg.RequiresApproval("commit"))
	assert.True(t, cfg.RequiresApproval("delete_file"))
	assert.False(t, cfg.RequiresApproval("fetch_story"))
	assert.False(t, cfg.RequiresApproval("some_unlisted_action"))
}

func TestStatusTerminal(t *testing.T) {
	terminal := []agent.Status{
		agent.StatusSucceeded, agent.StatusFailed, agent.StatusStopped,
		agent.StatusTimeout, agent.StatusBudgetExceeded,
	}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "expected %s to be terminal", s)
	}
	assert.False(t, agent.StatusRunning.Terminal())
	assert.False(t, agent.StatusWaitingForApproval.Terminal())
}
