package llmgateway

import "strings"

// suspectPatterns are substrings that, if present in generated content, mark
// it as carrying an obvious exploit attempt (spec §4.4 step 4: "identify
// obvious exploit patterns"). This is a coarse net, not a security boundary;
// it exists to catch egregious cases before they ever reach a reviewer.
var suspectPatterns = []string{
	"rm -rf /",
	"DROP TABLE",
	"os.Exec(\"sh\"",
	"eval(",
}

// DefaultValidator applies the structural check spec §4.4 describes per
// task kind: generated content for TaskTestGeneration and TaskFixSuggestion
// must be non-empty and free of obvious exploit patterns; TaskFailureAnalysis
// content must be non-empty prose.
func DefaultValidator(taskKind TaskKind, content string) (passed bool, shouldBlock bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false, false
	}
	switch taskKind {
	case TaskTestGeneration, TaskFixSuggestion:
		for _, p := range suspectPatterns {
			if strings.Contains(content, p) {
				return false, true
			}
		}
		return true, false
	case TaskFailureAnalysis:
		return len(trimmed) > 0, false
	default:
		return true, false
	}
}
