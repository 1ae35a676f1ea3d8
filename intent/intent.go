// Package intent implements the Test Intent model and validator (C6): a
// typed structure for browser-action sequences, separate from however a
// collaborator renders them into executable source (spec §4.6).
package intent

// Action enumerates the browser actions a Test Intent step may perform
// (spec §3).
type Action string

const (
	Navigate        Action = "NAVIGATE"
	Fill            Action = "FILL"
	Click           Action = "CLICK"
	ClickRole       Action = "CLICK_ROLE"
	PressKey        Action = "PRESS_KEY"
	SelectOption    Action = "SELECT_OPTION"
	WaitForSelector Action = "WAIT_FOR_SELECTOR"
	WaitForURL      Action = "WAIT_FOR_URL"
	AssertURL       Action = "ASSERT_URL"
	AssertText      Action = "ASSERT_TEXT"
	AssertTitle     Action = "ASSERT_TITLE"
	AssertCount     Action = "ASSERT_COUNT"
	AssertValue     Action = "ASSERT_VALUE"
	AssertVisible   Action = "ASSERT_VISIBLE"
	Reload          Action = "RELOAD"
)

// actionRequirements captures, per action, whether a step using it must
// carry a non-empty locator and/or value (spec §3 invariants).
var actionRequirements = map[Action]struct {
	requiresLocator bool
	requiresValue   bool
}{
	Navigate:        {requiresLocator: false, requiresValue: true},
	Fill:            {requiresLocator: true, requiresValue: true},
	Click:           {requiresLocator: true, requiresValue: false},
	ClickRole:       {requiresLocator: true, requiresValue: false},
	PressKey:        {requiresLocator: false, requiresValue: true},
	SelectOption:    {requiresLocator: true, requiresValue: true},
	WaitForSelector: {requiresLocator: true, requiresValue: false},
	WaitForURL:      {requiresLocator: false, requiresValue: true},
	AssertURL:       {requiresLocator: false, requiresValue: true},
	AssertText:      {requiresLocator: true, requiresValue: true},
	AssertTitle:     {requiresLocator: false, requiresValue: true},
	AssertCount:     {requiresLocator: true, requiresValue: true},
	AssertValue:     {requiresLocator: true, requiresValue: true},
	AssertVisible:   {requiresLocator: true, requiresValue: false},
	Reload:          {requiresLocator: false, requiresValue: false},
}

// RequiresLocator reports whether steps using this action must carry a
// non-empty locator.
func (a Action) RequiresLocator() bool {
	return actionRequirements[a].requiresLocator
}

// RequiresValue reports whether steps using this action must carry a
// non-empty value.
func (a Action) RequiresValue() bool {
	return actionRequirements[a].requiresValue
}

// Known reports whether a is one of the enumerated actions.
func (a Action) Known() bool {
	_, ok := actionRequirements[a]
	return ok
}

// Step is a single Intent Step (spec §3).
type Step struct {
	Action      Action `json:"action"`
	Locator     string `json:"locator,omitempty"`
	Value       string `json:"value,omitempty"`
	TimeoutMS   int    `json:"timeout,omitempty"`
	Description string `json:"description,omitempty"`
}

// TestIntent is the structured output of a generator agent (spec §3; wire
// shape spec §6: "top-level object with `className` (string),
// `testClassName` (string), `steps`"). ClassName names the page-object class
// the intent exercises; TestClassName names the generated test's own class.
type TestIntent struct {
	ClassName     string `json:"className"`
	TestClassName string `json:"testClassName"`
	Steps         []Step `json:"steps"`
}
