package browser

import (
	"context"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
	"github.com/singh24honey/qa-automation-framework-sub005/tools"
)

// NewCapturePageHTMLTool adapts a collab.BrowserDriver into the
// "capture_page_html" tool SelfHealingFixer dispatches as the first step of
// a self-healing attempt (spec §8 scenario 5): open a context, navigate to
// url, and return the page's HTML for locator extraction.
func NewCapturePageHTMLTool(d collab.BrowserDriver) *tools.Tool {
	return &tools.Tool{
		ActionType:  "capture_page_html",
		DisplayName: "Capture Page HTML",
		Description: "Navigates to a URL in a fresh browser context and returns the page's HTML.",
		Params: map[string]tools.ParamSchema{
			"url": {Type: "string", Required: true, Description: "URL the failing step was on"},
		},
		Execute: func(ctx context.Context, params map[string]any) (map[string]any, error) {
			url, _ := params["url"].(string)
			pageID, err := d.NewContext(ctx)
			if err != nil {
				return map[string]any{"success": false, "error": err.Error()}, nil
			}
			defer func() { _ = d.Close(ctx, pageID) }()

			if err := d.Navigate(ctx, pageID, url); err != nil {
				return map[string]any{"success": false, "error": err.Error()}, nil
			}
			html, err := d.Content(ctx, pageID)
			if err != nil {
				return map[string]any{"success": false, "error": err.Error()}, nil
			}
			return map[string]any{"success": true, "html": html}, nil
		},
	}
}
