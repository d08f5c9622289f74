// Package history stores run outcomes in SQLite so trends and flaky cases
// can be inspected across runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/networkteam/staycheck/scenario"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	driver      TEXT NOT NULL,
	base_url    TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

CREATE TABLE IF NOT EXISTS cases (
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	suite         TEXT NOT NULL,
	scenario      TEXT NOT NULL,
	status        TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	failures      INTEGER NOT NULL,
	first_failure TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_cases_name ON cases(suite, scenario);
`

// Store is a SQLite backed run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Run is the summary of a stored run.
type Run struct {
	ID       string
	Driver   string
	BaseURL  string
	Started  time.Time
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
}

// Case is a stored case outcome.
type Case struct {
	Suite        string
	Scenario     string
	Status       scenario.Status
	Duration     time.Duration
	Failures     int
	FirstFailure string
}

// SaveRun stores a run and its cases in one transaction.
func (s *Store) SaveRun(ctx context.Context, res scenario.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	counts := res.Counts()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, driver, base_url, started_at, duration_ms, passed, failed, skipped) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID.String(), res.Driver, res.BaseURL, res.Started.UnixMilli(), res.Duration.Milliseconds(),
		counts[scenario.StatusPassed], counts[scenario.StatusFailed], counts[scenario.StatusSkipped],
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases (run_id, position, suite, scenario, status, duration_ms, failures, first_failure) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing case insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range res.Cases {
		var first string
		if len(c.Failures) > 0 {
			first = c.Failures[0].Message
		}
		if _, err = stmt.ExecContext(ctx, res.ID.String(), i, c.Suite, c.Scenario, string(c.Status), c.Duration.Milliseconds(), len(c.Failures), first); err != nil {
			return fmt.Errorf("inserting case %s: %w", c.Name(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, driver, base_url, started_at, duration_ms, passed, failed, skipped FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, duration int64
		if err := rows.Scan(&r.ID, &r.Driver, &r.BaseURL, &started, &duration, &r.Passed, &r.Failed, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started = time.UnixMilli(started)
		r.Duration = time.Duration(duration) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Cases returns the cases of a run in suite order.
func (s *Store) Cases(ctx context.Context, runID string) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT suite, scenario, status, duration_ms, failures, first_failure FROM cases WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var cases []Case
	for rows.Next() {
		var c Case
		var status string
		var duration int64
		if err := rows.Scan(&c.Suite, &c.Scenario, &status, &duration, &c.Failures, &c.FirstFailure); err != nil {
			return nil, fmt.Errorf("scanning case: %w", err)
		}
		c.Status = scenario.Status(status)
		c.Duration = time.Duration(duration) * time.Millisecond
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Flaky returns "suite/scenario" names that both passed and failed within
// the last runs runs.
func (s *Store) Flaky(ctx context.Context, runs int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.suite || '/' || c.scenario AS name
		FROM cases c
		JOIN (SELECT id FROM runs ORDER BY started_at DESC LIMIT ?) r ON r.id = c.run_id
		WHERE c.status IN ('passed', 'failed')
		GROUP BY c.suite, c.scenario
		HAVING COUNT(DISTINCT c.status) > 1
		ORDER BY name`, runs)
	if err != nil {
		return nil, fmt.Errorf("querying flaky cases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning flaky case: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
