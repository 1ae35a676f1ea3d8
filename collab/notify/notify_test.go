package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/collab/notify"
)

func TestRecorderRecordsNotifications(t *testing.T) {
	r := notify.New()

	require.NoError(t, r.Notify(context.Background(), "slack#qa-alerts", map[string]any{"message": "self-healing fix approved"}))
	require.NoError(t, r.Notify(context.Background(), "email", map[string]any{"to": "qa-lead@example.com"}))

	sent := r.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "slack#qa-alerts", sent[0].Channel)
	assert.Equal(t, "self-healing fix approved", sent[0].Payload["message"])
}
