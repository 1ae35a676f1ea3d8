// Package browser implements the collab.BrowserDriver contract against a
// real Chromium instance using playwright-community/playwright-go.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/singh24honey/qa-automation-framework-sub005/collab"
)

// Driver runs one Playwright instance and one launched Chromium browser,
// multiplexing collab.BrowserDriver's page-scoped operations across
// independently opened pages keyed by an opaque page ID.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser

	mu    sync.Mutex
	pages map[string]playwright.Page
	next  int
}

// Launch starts Playwright and a headless Chromium browser. Callers must
// call Shutdown when done.
func Launch(headless bool) (*Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("browser: start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("browser: launch chromium: %w", err)
	}
	return &Driver{pw: pw, browser: browser, pages: make(map[string]playwright.Page)}, nil
}

// Shutdown closes the browser and stops Playwright.
func (d *Driver) Shutdown() error {
	if err := d.browser.Close(); err != nil {
		return err
	}
	return d.pw.Stop()
}

var _ collab.BrowserDriver = (*Driver)(nil)

// NewContext implements collab.BrowserDriver by opening a fresh isolated
// browser context and page, returning an opaque page ID for subsequent
// calls.
func (d *Driver) NewContext(ctx context.Context) (string, error) {
	bctx, err := d.browser.NewContext()
	if err != nil {
		return "", fmt.Errorf("browser: new context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("browser: new page: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	id := fmt.Sprintf("page-%d", d.next)
	d.pages[id] = page
	return id, nil
}

func (d *Driver) page(pageID string) (playwright.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	page, ok := d.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("browser: unknown page %q", pageID)
	}
	return page, nil
}

// Navigate implements collab.BrowserDriver.
func (d *Driver) Navigate(ctx context.Context, pageID, url string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	_, err = page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded})
	if err != nil {
		return fmt.Errorf("browser: navigate to %q: %w", url, err)
	}
	return nil
}

// Fill implements collab.BrowserDriver.
func (d *Driver) Fill(ctx context.Context, pageID, selector, value string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	if err := page.Fill(selector, value); err != nil {
		return fmt.Errorf("browser: fill %q: %w", selector, err)
	}
	return nil
}

// Click implements collab.BrowserDriver.
func (d *Driver) Click(ctx context.Context, pageID, selector string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	if err := page.Click(selector); err != nil {
		return fmt.Errorf("browser: click %q: %w", selector, err)
	}
	return nil
}

// Select implements collab.BrowserDriver.
func (d *Driver) Select(ctx context.Context, pageID, selector, value string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	if _, err := page.SelectOption(selector, playwright.SelectOptionValues{Values: &[]string{value}}); err != nil {
		return fmt.Errorf("browser: select %q=%q: %w", selector, value, err)
	}
	return nil
}

// WaitFor implements collab.BrowserDriver.
func (d *Driver) WaitFor(ctx context.Context, pageID, selector string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	if _, err := page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{}); err != nil {
		return fmt.Errorf("browser: wait for %q: %w", selector, err)
	}
	return nil
}

// AssertVisible implements collab.BrowserDriver.
func (d *Driver) AssertVisible(ctx context.Context, pageID, selector string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	locator := page.Locator(selector)
	visible, err := locator.IsVisible()
	if err != nil {
		return fmt.Errorf("browser: check visibility of %q: %w", selector, err)
	}
	if !visible {
		return fmt.Errorf("browser: %q is not visible", selector)
	}
	return nil
}

// AssertText implements collab.BrowserDriver.
func (d *Driver) AssertText(ctx context.Context, pageID, selector, want string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	got, err := page.TextContent(selector)
	if err != nil {
		return fmt.Errorf("browser: read text of %q: %w", selector, err)
	}
	if got != want {
		return fmt.Errorf("browser: text of %q = %q, want %q", selector, got, want)
	}
	return nil
}

// AssertURL implements collab.BrowserDriver.
func (d *Driver) AssertURL(ctx context.Context, pageID, want string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	if got := page.URL(); got != want {
		return fmt.Errorf("browser: url = %q, want %q", got, want)
	}
	return nil
}

// Content implements collab.BrowserDriver.
func (d *Driver) Content(ctx context.Context, pageID string) (string, error) {
	page, err := d.page(pageID)
	if err != nil {
		return "", err
	}
	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("browser: read content: %w", err)
	}
	return html, nil
}

// Screenshot implements collab.BrowserDriver.
func (d *Driver) Screenshot(ctx context.Context, pageID string) ([]byte, error) {
	page, err := d.page(pageID)
	if err != nil {
		return nil, err
	}
	data, err := page.Screenshot(playwright.PageScreenshotOptions{Type: playwright.ScreenshotTypePng})
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	return data, nil
}

// Close implements collab.BrowserDriver, releasing the page and forgetting
// its ID.
func (d *Driver) Close(ctx context.Context, pageID string) error {
	page, err := d.page(pageID)
	if err != nil {
		return err
	}
	if err := page.Close(); err != nil {
		return fmt.Errorf("browser: close page: %w", err)
	}
	d.mu.Lock()
	delete(d.pages, pageID)
	d.mu.Unlock()
	return nil
}
