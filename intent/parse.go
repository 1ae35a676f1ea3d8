package intent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```$")

// trimFences strips a surrounding markdown code fence from raw, if present
// (spec §4.6: "Trim the JSON fences if present.").
func trimFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// locatorStrategies are the recognized `strategy=` prefixes a locator may
// carry (spec §3).
var locatorStrategies = map[string]bool{
	"testid":      true,
	"css":         true,
	"role":        true,
	"label":       true,
	"placeholder": true,
	"text":        true,
	"xpath":       true,
}

// normalizeLocator applies spec §4.6's rule: "a bare selector without a
// strategy= prefix is treated as CSS."
func normalizeLocator(locator string) string {
	if locator == "" {
		return locator
	}
	if idx := strings.Index(locator, "="); idx > 0 {
		prefix := locator[:idx]
		if locatorStrategies[prefix] {
			return locator
		}
	}
	return "css=" + locator
}

// rawStep mirrors Step's wire shape but keeps Action as a string so an
// unrecognized value can be detected rather than rejected by json.Unmarshal.
type rawStep struct {
	Action      string `json:"action"`
	Locator     string `json:"locator"`
	Value       string `json:"value"`
	TimeoutMS   int    `json:"timeout"`
	Description string `json:"description"`
}

type rawIntent struct {
	ClassName     string    `json:"className"`
	TestClassName string    `json:"testClassName"`
	Steps         []rawStep `json:"steps"`
}

// ParseResult carries a validated Intent plus the warnings lenient parsing
// produced along the way — unknown actions and steps dropped for missing
// required fields are never silently lost.
type ParseResult struct {
	Intent   TestIntent
	Warnings []string
}

// Parse implements the lenient parse spec §4.6 describes: trims JSON
// fences, decodes the envelope, converts unrecognized action keywords into
// filtered-out null-action steps (with a recorded warning), enforces each
// retained step's locator/value requirements, and normalizes bare-selector
// locators to CSS.
func Parse(raw string) (ParseResult, error) {
	trimmed := trimFences(raw)
	var ri rawIntent
	if err := json.Unmarshal([]byte(trimmed), &ri); err != nil {
		return ParseResult{}, fmt.Errorf("intent: invalid JSON: %w", err)
	}

	result := ParseResult{Intent: TestIntent{ClassName: ri.ClassName, TestClassName: ri.TestClassName}}
	for i, rs := range ri.Steps {
		action := Action(strings.ToUpper(strings.TrimSpace(rs.Action)))
		if !action.Known() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("step %d: unknown action %q dropped", i, rs.Action))
			continue
		}

		step := Step{
			Action:      action,
			Locator:     normalizeLocator(strings.TrimSpace(rs.Locator)),
			Value:       rs.Value,
			TimeoutMS:   rs.TimeoutMS,
			Description: rs.Description,
		}
		if action.RequiresLocator() && step.Locator == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("step %d: action %s requires a locator, dropped", i, action))
			continue
		}
		if action.RequiresValue() && step.Value == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("step %d: action %s requires a value, dropped", i, action))
			continue
		}
		result.Intent.Steps = append(result.Intent.Steps, step)
	}
	return result, nil
}
