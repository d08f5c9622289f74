package report_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/internal/report"
	"github.com/networkteam/staycheck/journal"
	"github.com/networkteam/staycheck/scenario"
)

func sampleResult() scenario.Result {
	return scenario.Result{
		ID:       uuid.Must(uuid.FromString("01928f5e-7b3a-7cc1-9d1e-2b9a3f1c0d11")),
		Driver:   "playwright",
		BaseURL:  "http://localhost:8080",
		Started:  time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC),
		Duration: 9 * time.Second,
		Cases: []scenario.CaseResult{
			{
				Suite: "booking-flow", Scenario: "positive-booking", Status: scenario.StatusPassed, Duration: 2500 * time.Millisecond,
				Steps: []scenario.StepResult{{Name: "Select dates", Status: scenario.StatusPassed, Notes: []string{"picked 2026-10-20 to 2026-10-22"}}},
			},
			{
				Suite: "booking-flow", Scenario: "multiple-field-errors", Status: scenario.StatusFailed, Duration: 3 * time.Second,
				Failures: []scenario.Failure{
					{Message: ".alert.alert-danger: to contain text\n  expected: containing \"size must be between 11 and 21\"", Err: errors.New("x")},
				},
			},
			{
				Suite: "navigation-and-ui", Scenario: "ui-validation", Status: scenario.StatusFailed, Duration: time.Second,
				Failures: []scenario.Failure{{Step: "Footer validation", Message: "footer: to contain text"}},
			},
			{Suite: "room-booking", Scenario: "unavailable-slot", Status: scenario.StatusSkipped, SkipReason: "not focused"},
		},
	}
}

func TestWriteRead_roundTrip(t *testing.T) {
	res := sampleResult()
	filename := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteFile(filename, res))

	got, err := report.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, res.Cases[1].Failures[0].Message, got.Cases[1].Failures[0].Message)
	assert.Nil(t, got.Cases[1].Failures[0].Err, "errors are not serialized")
	assert.False(t, got.Passed())
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Summary(&buf, sampleResult()))

	assert.Equal(t, `PASS booking-flow/positive-booking (2.5s)
FAIL booking-flow/multiple-field-errors (3s)
    .alert.alert-danger: to contain text
      expected: containing "size must be between 11 and 21"
FAIL navigation-and-ui/ui-validation (1s)
    [Footer validation]
      footer: to contain text
SKIP room-booking/unavailable-slot (not focused)

1 passed, 2 failed, 1 skipped in 9s (playwright, run 01928f5e-7b3a-7cc1-9d1e-2b9a3f1c0d11)
`, buf.String())
}

func TestFailedCases(t *testing.T) {
	assert.Equal(t, []string{"booking-flow/multiple-field-errors", "navigation-and-ui/ui-validation"}, report.FailedCases(sampleResult()))
}

func TestHighlight(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Highlight(&buf, []byte(`{"driver": "playwright"}`)))
	assert.Contains(t, buf.String(), "playwright")
	assert.Contains(t, buf.String(), "\x1b[", "terminal escape codes")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteHTML(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "<h1>Run 01928f5e-7b3a-7cc1-9d1e-2b9a3f1c0d11</h1>")
	assert.Contains(t, out, "1 passed, 2 failed, 1 skipped")
	assert.Contains(t, out, `class="chroma"`)
	assert.Contains(t, out, "FAIL booking-flow/multiple-field-errors")
}

func TestNotesAreReported(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sampleResult()))
	assert.Contains(t, buf.String(), `"notes": [`)
	assert.Contains(t, buf.String(), "picked 2026-10-20 to 2026-10-22")

	buf.Reset()
	require.NoError(t, report.WriteHTML(&buf, sampleResult()))
	assert.Contains(t, buf.String(), "picked 2026-10-20 to 2026-10-22")
}

func TestTrace(t *testing.T) {
	start := time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)
	evt := journal.Event{
		Kind:  journal.KindCase,
		Name:  "booking-flow/invalid-email",
		Data:  scenario.CaseResult{Status: scenario.StatusFailed},
		Start: start,
		End:   start.Add(1200 * time.Millisecond),
		Children: []*journal.Event{
			{Kind: journal.KindNote, Name: "using room 1"},
			{
				Kind:  journal.KindStep,
				Name:  "Submit booking",
				Data:  scenario.StepResult{Status: scenario.StatusFailed},
				Start: start,
				End:   start.Add(800 * time.Millisecond),
				Children: []*journal.Event{
					{Kind: journal.KindFailure, Name: "alert: to contain text\n  got: nothing", Data: errors.New("x")},
					{Kind: journal.KindNote, Name: "suppressed application error", Data: "TypeError: x is undefined"},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Trace(&buf, evt))
	assert.Equal(t, `case booking-flow/invalid-email failed (1.2s)
  note using room 1
  step Submit booking failed (800ms)
    failure alert: to contain text
          got: nothing
    note suppressed application error: TypeError: x is undefined
`, buf.String())
}
