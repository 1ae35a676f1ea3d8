package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/intent"
)

const loginIntentJSON = "```json\n" + `{
  "className": "LoginPage",
  "testClassName": "LoginTest",
  "steps": [
    {"action": "NAVIGATE", "value": "https://www.saucedemo.com"},
    {"action": "FILL", "locator": "testid=username", "value": "standard_user"},
    {"action": "FILL", "locator": "testid=password", "value": "secret_sauce"},
    {"action": "CLICK", "locator": "testid=login-button"},
    {"action": "ASSERT_URL", "value": ".*inventory.*"}
  ]
}` + "\n```"

func TestParseHappyPathTrimsFencesAndNormalizes(t *testing.T) {
	result, err := intent.Parse(loginIntentJSON)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Intent.Steps, 5)
	assert.Equal(t, "LoginPage", result.Intent.ClassName)
	assert.Equal(t, "LoginTest", result.Intent.TestClassName)
	assert.Equal(t, "testid=username", result.Intent.Steps[1].Locator)
}

func TestParseNormalizesBareSelectorToCSS(t *testing.T) {
	raw := `{"className":"P","testClassName":"T","steps":[{"action":"CLICK","locator":"#submit"}]}`
	result, err := intent.Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.Intent.Steps, 1)
	assert.Equal(t, "css=#submit", result.Intent.Steps[0].Locator)
}

func TestParseDropsUnknownActionWithWarning(t *testing.T) {
	raw := `{"className":"P","testClassName":"T","steps":[{"action":"TELEPORT","value":"x"},{"action":"NAVIGATE","value":"https://x"}]}`
	result, err := intent.Parse(raw)
	require.NoError(t, err)
	require.Len(t, result.Intent.Steps, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "unknown action")
}

func TestParseDropsStepMissingRequiredLocator(t *testing.T) {
	raw := `{"className":"P","testClassName":"T","steps":[{"action":"CLICK"}]}`
	result, err := intent.Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, result.Intent.Steps)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "requires a locator")
}

func TestParseDropsStepMissingRequiredValue(t *testing.T) {
	raw := `{"className":"P","testClassName":"T","steps":[{"action":"NAVIGATE"}]}`
	result, err := intent.Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, result.Intent.Steps)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "requires a value")
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := intent.Parse("not json")
	assert.Error(t, err)
}

func TestValidateShapeRejectsNonObject(t *testing.T) {
	err := intent.ValidateShape(`["not", "an", "object"]`)
	assert.Error(t, err)
}

func TestValidateShapeAcceptsWellFormedEnvelope(t *testing.T) {
	err := intent.ValidateShape(loginIntentJSON)
	assert.NoError(t, err)
}
