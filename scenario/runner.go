package scenario

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/journal"
)

// Options configures a Runner.
type Options struct {
	// Workers bounds the number of cases running at the same time.
	// Default: 1
	Workers int
	// Rate limits session starts per second. Zero or less means unlimited.
	Rate float64
	// Timeout is the polling timeout of assertions made through Case.Expect.
	// Default: 5s
	Timeout time.Duration
	// IgnoreAppErrors logs uncaught application errors instead of failing.
	IgnoreAppErrors bool
	// HonorFocus runs only focused scenarios when any exist.
	HonorFocus bool
	// BaseURL is recorded in the result.
	BaseURL string

	Logger zerolog.Logger
	// Journal receives case events. Default: a new journal per runner, which
	// is closed when Run returns.
	Journal *journal.Journal
}

const defaultJournalCapacity = 1000

// Runner executes suites with sessions from a launcher.
type Runner struct {
	launcher    driver.Launcher
	opts        Options
	ownsJournal bool
}

// NewRunner creates a runner.
func NewRunner(launcher driver.Launcher, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	r := &Runner{launcher: launcher, opts: opts}
	if opts.Journal == nil {
		r.opts.Journal = journal.New(defaultJournalCapacity)
		r.ownsJournal = true
	}
	return r
}

// Journal returns the journal case events are recorded to. Subscribe before
// calling Run to follow cases as they finish.
func (r *Runner) Journal() *journal.Journal {
	return r.opts.Journal
}

type plannedCase struct {
	suite      string
	scenario   Scenario
	skipReason string
}

func (r *Runner) plan(suites []Suite) []plannedCase {
	var focused int
	for _, suite := range suites {
		for _, sc := range suite.Scenarios {
			if sc.Focus {
				focused++
				if !r.opts.HonorFocus {
					r.opts.Logger.Warn().
						Str("scenario", FullName(suite.Name, sc.Name)).
						Msg("Ignoring focus marker, all scenarios will run")
				}
			}
		}
	}
	exclusive := r.opts.HonorFocus && focused > 0

	var planned []plannedCase
	for _, suite := range suites {
		for _, sc := range suite.Scenarios {
			pc := plannedCase{suite: suite.Name, scenario: sc, skipReason: sc.Skip}
			if pc.skipReason == "" && exclusive && !sc.Focus {
				pc.skipReason = "not focused"
			}
			planned = append(planned, pc)
		}
	}
	return planned
}

// Run executes all scenarios of suites. Cases run concurrently up to
// Options.Workers; results keep suite order. The error is only set when ctx
// ended the run early.
func (r *Runner) Run(ctx context.Context, suites ...Suite) (Result, error) {
	if r.ownsJournal {
		defer r.opts.Journal.Close()
	}

	res := Result{
		ID:      uuid.Must(uuid.NewV7()),
		Driver:  r.launcher.Name(),
		BaseURL: r.opts.BaseURL,
		Started: time.Now(),
	}
	logger := r.opts.Logger.With().Str("run", res.ID.String()).Str("driver", res.Driver).Logger()

	planned := r.plan(suites)
	res.Cases = make([]CaseResult, len(planned))

	limit := rate.Inf
	if r.opts.Rate > 0 {
		limit = rate.Limit(r.opts.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, pc := range planned {
		if pc.skipReason != "" {
			res.Cases[i] = CaseResult{
				Suite:      pc.suite,
				Scenario:   pc.scenario.Name,
				Status:     StatusSkipped,
				SkipReason: pc.skipReason,
			}
			continue
		}
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				res.Cases[i] = CaseResult{
					Suite:      pc.suite,
					Scenario:   pc.scenario.Name,
					Status:     StatusSkipped,
					SkipReason: "run cancelled",
				}
				return fmt.Errorf("waiting for session slot: %w", err)
			}
			res.Cases[i] = r.runCase(ctx, logger, pc)
			return nil
		})
	}
	err := g.Wait()

	res.Duration = time.Since(res.Started)
	logger.Info().
		Int("cases", len(res.Cases)).
		Interface("counts", res.Counts()).
		Dur("duration", res.Duration).
		Msg("Run finished")
	return res, err
}

func (r *Runner) runCase(ctx context.Context, logger zerolog.Logger, pc plannedCase) CaseResult {
	name := FullName(pc.suite, pc.scenario.Name)
	logger = logger.With().Str("case", name).Logger()
	logger.Debug().Msg("Starting case")

	start := time.Now()
	caseCtx := r.opts.Journal.Begin(ctx, journal.KindCase, name)

	session, err := r.launcher.NewSession(ctx)
	if err != nil {
		res := CaseResult{
			Suite:    pc.suite,
			Scenario: pc.scenario.Name,
			Status:   StatusFailed,
			Duration: time.Since(start),
			Aborted:  true,
			Failures: []Failure{{Message: fmt.Sprintf("starting session: %v", err), Err: err}},
		}
		r.opts.Journal.Record(caseCtx, journal.KindFailure, res.Failures[0].Message, err)
		r.finishCase(caseCtx, &res)
		logger.Error().Err(err).Msg("Could not start session")
		return res
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Err(err).Msg("Closing session failed")
		}
	}()

	c := newCase(caseCtx, name, session, r.opts.Journal, logger, r.opts)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				c.RecordFailure(fmt.Errorf("panic: %v\n%s", p, debug.Stack()))
				c.abort()
			}
		}()
		pc.scenario.Run(c, session)
	}()
	<-done

	// Errors raised after the last step still belong to the case.
	c.checkAppErrors()

	res := c.result(pc.suite, pc.scenario.Name, time.Since(start))
	r.finishCase(caseCtx, &res)

	ev := logger.Info()
	if res.Status == StatusFailed {
		ev = logger.Warn().Int("failures", len(res.Failures)).Bool("aborted", res.Aborted)
	}
	ev.Dur("duration", res.Duration).Str("status", string(res.Status)).Msg("Case finished")
	return res
}

// finishCase closes the case event and copies the notes recorded below it
// into res.
func (r *Runner) finishCase(caseCtx context.Context, res *CaseResult) {
	r.opts.Journal.Finish(caseCtx, *res)

	id, _ := journal.GroupIDFromContext(caseCtx)
	evt, ok := r.opts.Journal.Lookup(id)
	if !ok {
		return
	}
	step := 0
	for _, child := range evt.Children {
		switch child.Kind {
		case journal.KindNote:
			res.Notes = append(res.Notes, noteText(child))
		case journal.KindStep:
			// Steps are recorded in the order they finished, like res.Steps.
			if step < len(res.Steps) {
				for _, n := range child.Children {
					if n.Kind == journal.KindNote {
						res.Steps[step].Notes = append(res.Steps[step].Notes, noteText(n))
					}
				}
			}
			step++
		}
	}
}

func noteText(evt *journal.Event) string {
	if detail, ok := evt.Data.(string); ok && detail != "" {
		return evt.Name + ": " + detail
	}
	return evt.Name
}
