// Package render implements the renderer contract spec §4.6 assigns to a
// collaborator: given a validated Test Intent and a target class name,
// produce deterministic Go test source such that re-rendering the same
// Intent yields byte-identical output. The core stores the rendered source
// but never inspects it.
package render

import (
	"fmt"
	"strings"

	"github.com/singh24honey/qa-automation-framework-sub005/intent"
)

// Playwright renders a validated intent.TestIntent into a Go test function
// driving github.com/playwright-community/playwright-go. The package is
// named after in.ClassName (the page-object class the intent exercises) and
// the test function after in.TestClassName (spec §6's wire shape), rather
// than a name derived out-of-band from the triggering story.
func Playwright(in intent.TestIntent) (string, error) {
	if len(in.Steps) == 0 {
		return "", fmt.Errorf("render: intent %q has no steps", in.TestClassName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated from a Test Intent. DO NOT EDIT.\n")
	fmt.Fprintf(&b, "package %s\n\n", strings.ToLower(exportedName(in.ClassName)))
	b.WriteString("import (\n")
	b.WriteString("\t\"regexp\"\n")
	b.WriteString("\t\"testing\"\n\n")
	b.WriteString("\t\"github.com/playwright-community/playwright-go\"\n")
	b.WriteString(")\n\n")
	fmt.Fprintf(&b, "func Test%s(t *testing.T) {\n", exportedName(in.TestClassName))
	b.WriteString("\tpw, err := playwright.Run()\n")
	b.WriteString("\tif err != nil {\n\t\tt.Fatalf(\"launch playwright: %v\", err)\n\t}\n")
	b.WriteString("\tdefer pw.Stop()\n\n")
	b.WriteString("\tbrowser, err := pw.Chromium.Launch()\n")
	b.WriteString("\tif err != nil {\n\t\tt.Fatalf(\"launch browser: %v\", err)\n\t}\n")
	b.WriteString("\tdefer browser.Close()\n\n")
	b.WriteString("\tpage, err := browser.NewPage()\n")
	b.WriteString("\tif err != nil {\n\t\tt.Fatalf(\"new page: %v\", err)\n\t}\n\n")

	for i, step := range in.Steps {
		if step.Description != "" {
			fmt.Fprintf(&b, "\t// %s\n", step.Description)
		}
		line, err := renderStep(step)
		if err != nil {
			return "", fmt.Errorf("render: step %d: %w", i, err)
		}
		b.WriteString(line)
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func exportedName(className string) string {
	if className == "" {
		return "Generated"
	}
	r := []rune(className)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

func selectorFromLocator(locator string) string {
	if idx := strings.Index(locator, "="); idx > 0 {
		strategy, value := locator[:idx], locator[idx+1:]
		switch strategy {
		case "testid":
			return fmt.Sprintf("[data-testid=%q]", value)
		case "css":
			return value
		case "role":
			return fmt.Sprintf("role=%s", value)
		case "label":
			return fmt.Sprintf("text=%q", value)
		case "placeholder":
			return fmt.Sprintf("[placeholder=%q]", value)
		case "text":
			return fmt.Sprintf("text=%q", value)
		case "xpath":
			return "xpath=" + value
		}
	}
	return locator
}

func renderStep(step intent.Step) (string, error) {
	sel := selectorFromLocator(step.Locator)
	switch step.Action {
	case intent.Navigate:
		return fmt.Sprintf("\tif _, err := page.Goto(%q); err != nil {\n\t\tt.Fatalf(\"navigate: %%v\", err)\n\t}\n\n", step.Value), nil
	case intent.Fill:
		return fmt.Sprintf("\tif err := page.Fill(%q, %q); err != nil {\n\t\tt.Fatalf(\"fill: %%v\", err)\n\t}\n\n", sel, step.Value), nil
	case intent.Click:
		return fmt.Sprintf("\tif err := page.Click(%q); err != nil {\n\t\tt.Fatalf(\"click: %%v\", err)\n\t}\n\n", sel), nil
	case intent.ClickRole:
		return fmt.Sprintf("\tif err := page.Locator(%q).Click(); err != nil {\n\t\tt.Fatalf(\"click role: %%v\", err)\n\t}\n\n", sel), nil
	case intent.PressKey:
		return fmt.Sprintf("\tif err := page.Keyboard().Press(%q); err != nil {\n\t\tt.Fatalf(\"press key: %%v\", err)\n\t}\n\n", step.Value), nil
	case intent.SelectOption:
		return fmt.Sprintf("\tif _, err := page.SelectOption(%q, playwright.SelectOptionValues{Values: &[]string{%q}}); err != nil {\n\t\tt.Fatalf(\"select option: %%v\", err)\n\t}\n\n", sel, step.Value), nil
	case intent.WaitForSelector:
		return fmt.Sprintf("\tif _, err := page.WaitForSelector(%q); err != nil {\n\t\tt.Fatalf(\"wait for selector: %%v\", err)\n\t}\n\n", sel), nil
	case intent.WaitForURL:
		return fmt.Sprintf("\tif err := page.WaitForURL(%q); err != nil {\n\t\tt.Fatalf(\"wait for url: %%v\", err)\n\t}\n\n", step.Value), nil
	case intent.AssertURL:
		return fmt.Sprintf("\tif matched, _ := regexp.MatchString(%q, page.URL()); !matched {\n\t\tt.Fatalf(\"url %%q does not match %%q\", page.URL(), %q)\n\t}\n\n", step.Value, step.Value), nil
	case intent.AssertText:
		return fmt.Sprintf("\tif text, err := page.TextContent(%q); err != nil || text != %q {\n\t\tt.Fatalf(\"expected text %%q, got %%q (err=%%v)\", %q, text, err)\n\t}\n\n", sel, step.Value, step.Value), nil
	case intent.AssertTitle:
		return fmt.Sprintf("\tif title, err := page.Title(); err != nil || title != %q {\n\t\tt.Fatalf(\"expected title %%q, got %%q (err=%%v)\", %q, title, err)\n\t}\n\n", step.Value, step.Value), nil
	case intent.AssertCount:
		return fmt.Sprintf("\tif count, err := page.Locator(%q).Count(); err != nil || count != %s {\n\t\tt.Fatalf(\"expected count %s, got %%d (err=%%v)\", count, err)\n\t}\n\n", sel, step.Value, step.Value), nil
	case intent.AssertValue:
		return fmt.Sprintf("\tif val, err := page.InputValue(%q); err != nil || val != %q {\n\t\tt.Fatalf(\"expected value %%q, got %%q (err=%%v)\", %q, val, err)\n\t}\n\n", sel, step.Value, step.Value), nil
	case intent.AssertVisible:
		return fmt.Sprintf("\tif visible, err := page.Locator(%q).IsVisible(); err != nil || !visible {\n\t\tt.Fatalf(\"expected %%q to be visible (err=%%v)\", %q, err)\n\t}\n\n", sel, sel), nil
	case intent.Reload:
		return "\tif _, err := page.Reload(); err != nil {\n\t\tt.Fatalf(\"reload: %v\", err)\n\t}\n\n", nil
	default:
		return "", fmt.Errorf("render: unsupported action %q", step.Action)
	}
}
