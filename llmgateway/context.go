package llmgateway

import (
	"fmt"
	"strings"

	"github.com/singh24honey/qa-automation-framework-sub005/elementregistry"
)

// Story is the normalized shape of an issue-tracker story, the input the
// test-generator context builder composes a prompt from (spec §4.4; spec
// §4.9: "Issue Tracker: fetch_story(key) -> {summary, description,
// acceptance-criteria, labels, components, assignee}").
type Story struct {
	Key               string
	Summary           string
	Description       string
	AcceptanceCriteria []string
	Labels            []string
	Components        []string
	Assignee          string
}

// gherkinize renders free-text acceptance criteria into a normalized
// Gherkin-like form when the line does not already start with a Gherkin
// keyword. This is intentionally shallow: it is a formatting nudge for the
// planner prompt, not a parser.
func gherkinize(criteria []string) string {
	var b strings.Builder
	for i, c := range criteria {
		line := strings.TrimSpace(c)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		hasKeyword := strings.HasPrefix(upper, "GIVEN") || strings.HasPrefix(upper, "WHEN") ||
			strings.HasPrefix(upper, "THEN") || strings.HasPrefix(upper, "AND")
		if !hasKeyword {
			switch {
			case i == 0:
				line = "Given " + line
			default:
				line = "And " + line
			}
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// BuildTestGeneratorPrompt composes the prompt spec §4.4 describes for the
// test-generator task: the story in normalized Gherkin-like form, an
// optional API surface note, the Element Registry filtered to pages the
// story mentions, and a format directive requiring Test Intent JSON output.
func BuildTestGeneratorPrompt(story Story, apiSurface string, registry elementregistry.Registry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Story %s: %s\n\n", story.Key, story.Summary)
	if story.Description != "" {
		fmt.Fprintf(&b, "Description:\n%s\n\n", story.Description)
	}
	if len(story.AcceptanceCriteria) > 0 {
		b.WriteString("Acceptance Criteria:\n")
		b.WriteString(gherkinize(story.AcceptanceCriteria))
		b.WriteString("\n")
	}
	if apiSurface != "" {
		fmt.Fprintf(&b, "API Surface:\n%s\n\n", apiSurface)
	}

	mentioned := registry.PagesMentioning(story.Summary + " " + story.Description + " " + strings.Join(story.AcceptanceCriteria, " "))
	if len(mentioned) > 0 {
		b.WriteString("Known Pages And Elements:\n")
		for name, page := range mentioned {
			fmt.Fprintf(&b, "- %s (%s)\n", name, page.URL)
			for elName, el := range page.Elements {
				fmt.Fprintf(&b, "  - %s: %s\n", elName, el.Locator())
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(formatDirective)
	return b.String()
}

const formatDirective = `Respond with a single JSON object matching the Test Intent schema:
{
  "className": "<page object class this test exercises>",
  "testClassName": "<generated test class name>",
  "steps": [
    {"action": "NAVIGATE", "value": "<url>"},
    {"action": "FILL", "locator": "<strategy=value>", "value": "<text>"},
    {"action": "CLICK", "locator": "<strategy=value>"},
    {"action": "ASSERT_URL", "value": "<regex>"}
  ]
}
Do not include any prose, markdown fences, or commentary outside the JSON object.
`

// BuildFailureAnalysisPrompt composes the prompt spec §4.4 describes for
// failure-analysis and fix-suggestion tasks: the captured page HTML
// (bounded to 50 KB), the failing step index, and the extracted broken
// locator.
func BuildFailureAnalysisPrompt(html string, failingStepIndex int, brokenLocator string) string {
	const maxHTML = 50 * 1024
	if len(html) > maxHTML {
		html = html[:maxHTML]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Failing step index: %d\n", failingStepIndex)
	fmt.Fprintf(&b, "Broken locator: %s\n\n", brokenLocator)
	b.WriteString("Captured page HTML:\n")
	b.WriteString(html)
	b.WriteString("\n\nIdentify the most likely replacement locator for the broken one, or explain why none of the visible elements match.\n")
	return b.String()
}
