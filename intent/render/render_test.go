package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/intent"
	"github.com/singh24honey/qa-automation-framework-sub005/intent/render"
)

func loginIntent() intent.TestIntent {
	return intent.TestIntent{
		ClassName:     "LoginPage",
		TestClassName: "LoginTest",
		Steps: []intent.Step{
			{Action: intent.Navigate, Value: "https://www.saucedemo.com"},
			{Action: intent.Fill, Locator: "testid=username", Value: "standard_user"},
			{Action: intent.Fill, Locator: "testid=password", Value: "secret_sauce"},
			{Action: intent.Click, Locator: "testid=login-button"},
			{Action: intent.AssertURL, Value: ".*inventory.*"},
		},
	}
}

func TestPlaywrightRenderIsDeterministic(t *testing.T) {
	in := loginIntent()
	first, err := render.Playwright(in)
	require.NoError(t, err)
	second, err := render.Playwright(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlaywrightRenderIncludesEachStep(t *testing.T) {
	out, err := render.Playwright(loginIntent())
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `page.Goto("https://www.saucedemo.com")`))
	assert.True(t, strings.Contains(out, "page.Fill"))
	assert.True(t, strings.Contains(out, "page.Click"))
	assert.True(t, strings.Contains(out, "regexp.MatchString"))
	assert.True(t, strings.Contains(out, "package loginpage"))
	assert.True(t, strings.Contains(out, "func TestLoginTest"))
}

func TestPlaywrightRenderRejectsEmptyIntent(t *testing.T) {
	_, err := render.Playwright(intent.TestIntent{ClassName: "Empty", TestClassName: "Empty"})
	assert.Error(t, err)
}
