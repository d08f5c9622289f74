package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/networkteam/staycheck/internal/config"
	"github.com/networkteam/staycheck/internal/history"
	"github.com/networkteam/staycheck/internal/logging"
	"github.com/networkteam/staycheck/internal/metrics"
	"github.com/networkteam/staycheck/internal/report"
	"github.com/networkteam/staycheck/internal/testsite"
	"github.com/networkteam/staycheck/scenario"
)

func newRunCommand(b Backend, o *options) *cobra.Command {
	var (
		local      bool
		localThrow bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the selected suites against the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}

			selected, err := scenario.Filter(b.suites(), cfg.Suites)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				return fmt.Errorf("no scenarios match %q", cfg.Suites)
			}

			ctx := cmd.Context()
			if local {
				demo, err := startDemo("127.0.0.1:0", testsite.Options{
					ThrowOnReservation: localThrow,
					Logger:             logger.With().Str("component", "testsite").Logger(),
				})
				if err != nil {
					return err
				}
				defer demo.Close()
				cfg.BaseURL = demo.URL
				logger.Info().Str("url", demo.URL).Msg("Serving local site")
			}

			launcher, err := b.Launch(cfg)
			if err != nil {
				return fmt.Errorf("launching browser: %w", err)
			}
			defer func() {
				if err := launcher.Close(); err != nil {
					logger.Warn().Err(err).Msg("Closing browser failed")
				}
			}()

			runner := scenario.NewRunner(launcher, scenario.Options{
				Workers:         cfg.Workers,
				Rate:            cfg.Rate,
				Timeout:         cfg.Timeout,
				IgnoreAppErrors: cfg.IgnoreAppErrors,
				HonorFocus:      cfg.HonorFocus,
				BaseURL:         cfg.BaseURL,
				Logger:          logger,
			})

			// The runner closes its journal when Run returns, which ends the trace.
			var trace sync.WaitGroup
			if verbose {
				events := runner.Journal().Subscribe(ctx)
				trace.Add(1)
				go func() {
					defer trace.Done()
					for evt := range events {
						if err := report.Trace(cmd.OutOrStdout(), evt); err != nil {
							logger.Warn().Err(err).Msg("Writing trace failed")
						}
					}
				}()
			}

			res, runErr := runner.Run(ctx, selected...)
			trace.Wait()

			if err := report.Summary(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if err := record(context.WithoutCancel(ctx), cfg, res, logger); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			if !res.Passed() {
				return ErrCasesFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "run against a local replica of the site")
	cmd.Flags().BoolVar(&localThrow, "local-app-errors", false, "make the local replica throw on reservation pages")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print steps, failures and notes of every case as it finishes")
	return cmd
}

// record writes the outputs enabled in cfg. All outputs are attempted.
func record(ctx context.Context, cfg config.Config, res scenario.Result, logger zerolog.Logger) error {
	var errs []error

	if cfg.ReportFile != "" {
		if err := report.WriteFile(cfg.ReportFile, res); err != nil {
			errs = append(errs, fmt.Errorf("writing report: %w", err))
		} else {
			logger.Debug().Str("file", cfg.ReportFile).Msg("Wrote report")
		}
	}

	if cfg.MetricsFile != "" {
		m := metrics.New()
		m.Observe(res)
		if err := m.WriteFile(cfg.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		} else {
			logger.Debug().Str("file", cfg.MetricsFile).Msg("Wrote metrics")
		}
	}

	if cfg.HistoryDB != "" {
		if err := saveHistory(ctx, cfg.HistoryDB, res); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func saveHistory(ctx context.Context, path string, res scenario.Result) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRun(ctx, res); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}
