package browser_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
	"github.com/singh24honey/qa-automation-framework-sub005/collab/browser"
)

// fakeDriver is a hand-rolled collab.BrowserDriver used to exercise the
// capture_page_html tool without launching a real Chromium instance.
type fakeDriver struct {
	pages       map[string]string
	next        int
	navigateErr error
	html        string
}

func (f *fakeDriver) NewContext(ctx context.Context) (string, error) {
	if f.pages == nil {
		f.pages = map[string]string{}
	}
	f.next++
	id := fmt.Sprintf("page-%d", f.next)
	f.pages[id] = ""
	return id, nil
}

func (f *fakeDriver) Navigate(ctx context.Context, pageID, url string) error {
	if f.navigateErr != nil {
		return f.navigateErr
	}
	f.pages[pageID] = url
	return nil
}

func (f *fakeDriver) Fill(ctx context.Context, pageID, selector, value string) error { return nil }
func (f *fakeDriver) Click(ctx context.Context, pageID, selector string) error       { return nil }
func (f *fakeDriver) Select(ctx context.Context, pageID, selector, value string) error {
	return nil
}
func (f *fakeDriver) WaitFor(ctx context.Context, pageID, selector string) error { return nil }
func (f *fakeDriver) AssertVisible(ctx context.Context, pageID, selector string) error {
	return nil
}
func (f *fakeDriver) AssertText(ctx context.Context, pageID, selector, want string) error {
	return nil
}
func (f *fakeDriver) AssertURL(ctx context.Context, pageID, want string) error { return nil }

func (f *fakeDriver) Content(ctx context.Context, pageID string) (string, error) {
	return f.html, nil
}

func (f *fakeDriver) Screenshot(ctx context.Context, pageID string) ([]byte, error) {
	return nil, nil
}

func (f *fakeDriver) Close(ctx context.Context, pageID string) error {
	delete(f.pages, pageID)
	return nil
}

var _ collab.BrowserDriver = (*fakeDriver)(nil)

func TestCapturePageHTMLToolReturnsContent(t *testing.T) {
	d := &fakeDriver{html: "<html>broken locator here</html>"}
	tool := browser.NewCapturePageHTMLTool(d)

	out, err := tool.Execute(context.Background(), map[string]any{"url": "https://example.invalid/login"})
	require.NoError(t, err)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "<html>broken locator here</html>", out["html"])
	assert.Empty(t, d.pages, "page must be closed after capture")
}

func TestCapturePageHTMLToolReportsNavigateFailure(t *testing.T) {
	d := &fakeDriver{navigateErr: fmt.Errorf("navigation timeout")}
	tool := browser.NewCapturePageHTMLTool(d)

	out, err := tool.Execute(context.Background(), map[string]any{"url": "https://example.invalid/login"})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "navigation timeout")
}
