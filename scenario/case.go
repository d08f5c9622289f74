package scenario

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/expect"
	"github.com/networkteam/staycheck/journal"
)

// AppError is an uncaught error raised by the application under test.
type AppError struct {
	Err error
}

func (e *AppError) Error() string {
	return "uncaught application error: " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Case is the handle a scenario uses to report failures. It implements
// expect.TB; FailNow ends the scenario goroutine.
type Case struct {
	ctx     context.Context
	name    string
	session driver.Session
	journal *journal.Journal
	logger  zerolog.Logger
	opts    Options

	mu         sync.Mutex
	stepCtx    context.Context
	step       *StepResult
	steps      []StepResult
	failures   []Failure
	aborted    bool
	suppressed int
}

var (
	_ expect.TB              = (*Case)(nil)
	_ expect.FailureRecorder = (*Case)(nil)
)

func newCase(ctx context.Context, name string, session driver.Session, j *journal.Journal, logger zerolog.Logger, opts Options) *Case {
	return &Case{
		ctx:     ctx,
		name:    name,
		session: session,
		journal: j,
		logger:  logger,
		opts:    opts,
		stepCtx: ctx,
	}
}

// Name returns "suite/scenario".
func (c *Case) Name() string { return c.name }

func (c *Case) Context() context.Context { return c.ctx }

func (c *Case) Helper() {}

// Expect returns soft assertions reporting to this case.
func (c *Case) Expect() *expect.Assertions {
	return expect.New(c, expect.WithTimeout(c.opts.Timeout))
}

func (c *Case) Errorf(format string, args ...any) {
	c.RecordFailure(fmt.Errorf(format, args...))
}

// RecordFailure marks the case failed and keeps err. The scenario continues.
func (c *Case) RecordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordFailure(err)
}

func (c *Case) recordFailure(err error) {
	f := Failure{Message: err.Error(), Err: err}
	if c.step != nil {
		f.Step = c.step.Name
		c.step.Status = StatusFailed
		c.step.Failures = append(c.step.Failures, f.Message)
	}
	c.failures = append(c.failures, f)

	kind := journal.KindFailure
	var appErr *AppError
	if errors.As(err, &appErr) {
		kind = journal.KindAppError
	}
	c.journal.Record(c.stepCtx, kind, f.Message, err)
	c.logger.Debug().Str("step", f.Step).Err(err).Msg("Check failed")
}

// FailNow marks the case failed and stops the scenario. Remaining steps are
// not run.
func (c *Case) FailNow() {
	c.mu.Lock()
	c.aborted = true
	if len(c.failures) == 0 {
		c.recordFailure(errors.New("case aborted"))
	}
	c.mu.Unlock()
	runtime.Goexit()
}

// abort marks the case as stopped early without ending the calling goroutine.
func (c *Case) abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aborted = true
}

// Fatalf records a failure and stops the scenario.
func (c *Case) Fatalf(format string, args ...any) {
	c.Errorf(format, args...)
	c.FailNow()
}

func (c *Case) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	stepCtx := c.stepCtx
	c.mu.Unlock()
	c.journal.Record(stepCtx, journal.KindNote, msg, nil)
	c.logger.Debug().Msg(msg)
}

// Failed reports whether any check failed so far.
func (c *Case) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures) > 0
}

// Step runs fn as a named step. Application errors raised during the step
// are attributed to it.
func (c *Case) Step(name string, fn func()) {
	c.mu.Lock()
	if c.step != nil {
		c.mu.Unlock()
		c.Fatalf("step %q started inside step %q", name, c.step.Name)
		return
	}
	c.step = &StepResult{Name: name, Status: StatusPassed}
	c.stepCtx = c.journal.Begin(c.ctx, journal.KindStep, name)
	c.mu.Unlock()

	start := time.Now()
	// Deferred so a FailNow inside fn still closes the step.
	defer func() {
		c.checkAppErrors()

		c.mu.Lock()
		defer c.mu.Unlock()
		c.step.Duration = time.Since(start)
		c.journal.Finish(c.stepCtx, *c.step)
		c.steps = append(c.steps, *c.step)
		c.step = nil
		c.stepCtx = c.ctx
	}()

	fn()
}

// checkAppErrors drains application errors from the session. They fail the
// case unless the run ignores them.
func (c *Case) checkAppErrors() {
	for _, err := range c.session.AppErrors() {
		if c.opts.IgnoreAppErrors {
			c.mu.Lock()
			c.suppressed++
			c.journal.Record(c.stepCtx, journal.KindNote, "suppressed application error", err.Error())
			c.mu.Unlock()
			c.logger.Warn().Err(err).Msg("Suppressed application error")
			continue
		}
		c.RecordFailure(&AppError{Err: err})
	}
}

func (c *Case) result(suite, scenario string, d time.Duration) CaseResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := StatusPassed
	if len(c.failures) > 0 {
		status = StatusFailed
	}
	return CaseResult{
		Suite:               suite,
		Scenario:            scenario,
		Status:              status,
		Duration:            d,
		Steps:               append([]StepResult(nil), c.steps...),
		Failures:            append([]Failure(nil), c.failures...),
		Aborted:             c.aborted,
		SuppressedAppErrors: c.suppressed,
	}
}
