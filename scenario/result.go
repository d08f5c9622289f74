package scenario

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"
)

// Status is the outcome of a case or step.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Failure is one failed check.
type Failure struct {
	// Step is empty for failures outside of a step.
	Step    string `json:"step,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

type StepResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	Failures []string      `json:"failures,omitempty"`
	// Notes are the messages logged while the step ran.
	Notes []string `json:"notes,omitempty"`
}

type CaseResult struct {
	Suite    string        `json:"suite"`
	Scenario string        `json:"scenario"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	// SkipReason is set for skipped cases.
	SkipReason string       `json:"skipReason,omitempty"`
	Steps      []StepResult `json:"steps,omitempty"`
	Failures   []Failure    `json:"failures,omitempty"`
	// Aborted is set when a hard failure stopped the case early.
	Aborted             bool `json:"aborted,omitempty"`
	SuppressedAppErrors int  `json:"suppressedAppErrors,omitempty"`
	// Notes are the messages logged outside of any step.
	Notes []string `json:"notes,omitempty"`
}

// Name returns "suite/scenario".
func (r CaseResult) Name() string {
	return FullName(r.Suite, r.Scenario)
}

// Result is the outcome of a run, with cases in suite order.
type Result struct {
	ID       uuid.UUID     `json:"id"`
	Driver   string        `json:"driver"`
	BaseURL  string        `json:"baseUrl,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Cases    []CaseResult  `json:"cases"`
}

// Passed reports whether no case failed.
func (r Result) Passed() bool {
	return !lo.SomeBy(r.Cases, func(c CaseResult) bool {
		return c.Status == StatusFailed
	})
}

// Counts returns the number of cases per status.
func (r Result) Counts() map[Status]int {
	return lo.CountValuesBy(r.Cases, func(c CaseResult) Status {
		return c.Status
	})
}
