package approval_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/approval"
)

func TestApproveResumesWaiter(t *testing.T) {
	e := approval.New(nil)
	req := e.Create("exec-1", 1, approval.TestGeneration, map[string]any{"path": "t.go"}, "agent", time.Hour, false)

	done := make(chan approval.Decision, 1)
	go func() {
		d, err := e.Await(context.Background(), req.ID)
		require.NoError(t, err)
		done <- d
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, e.Approve(req.ID, "reviewer-1", "looks good"))

	select {
	case d := <-done:
		assert.Equal(t, approval.Approved, d.Status)
		assert.Equal(t, "reviewer-1", d.ReviewerID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for decision")
	}
}

func TestDuplicateDecisionIsPrecondition(t *testing.T) {
	e := approval.New(nil)
	req := e.Create("exec-1", 1, approval.SelfHealingFix, nil, "agent", time.Hour, false)

	require.NoError(t, e.Reject(req.ID, "reviewer-1", "no"))
	err := e.Approve(req.ID, "reviewer-1", "changed my mind")
	assert.ErrorIs(t, err, approval.ErrNotPending)
}

func TestCancelUnblocksWaiterWithStopped(t *testing.T) {
	e := approval.New(nil)
	req := e.Create("exec-1", 1, approval.FlakyFix, nil, "agent", time.Hour, false)

	done := make(chan approval.Decision, 1)
	go func() {
		d, _ := e.Await(context.Background(), req.ID)
		done <- d
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, e.Cancel(req.ID, "agent"))

	d := <-done
	assert.Equal(t, approval.Cancelled, d.Status)
}

func TestAwaitOnAlreadyDecidedReturnsImmediately(t *testing.T) {
	e := approval.New(nil)
	req := e.Create("exec-1", 1, approval.FlakyManual, nil, "agent", time.Hour, false)
	require.NoError(t, e.Approve(req.ID, "r", "ok"))

	d, err := e.Await(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.Approved, d.Status)
}

func TestRoutingPolicyMatchesSpecTable(t *testing.T) {
	assert.True(t, approval.PolicyFor(approval.TestGeneration).SyncToDrafts)
	assert.True(t, approval.PolicyFor(approval.SelfHealingFix).SyncToDrafts)
	assert.False(t, approval.PolicyFor(approval.SelfHealingManual).SyncToDrafts)
	assert.True(t, approval.PolicyFor(approval.FlakyFix).TriggerGitWorkflow)
	assert.False(t, approval.PolicyFor(approval.FlakyManual).SyncToDrafts)
}

func TestUnknownRequestReturnsNotFound(t *testing.T) {
	e := approval.New(nil)
	_, err := e.Get("does-not-exist")
	assert.ErrorIs(t, err, approval.ErrNotFound)
}
