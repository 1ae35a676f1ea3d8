package secrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/collab/secrets"
)

func TestMockGet(t *testing.T) {
	store := secrets.New(map[string]string{"github_token": "ghp_abc123"})

	value, err := store.Get(context.Background(), "github_token")
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc123", value)
}

func TestMockGetMissingKey(t *testing.T) {
	store := secrets.New(nil)
	_, err := store.Get(context.Background(), "does_not_exist")
	assert.Error(t, err)
}
