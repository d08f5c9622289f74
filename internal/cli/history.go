package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/networkteam/staycheck/internal/history"
)

func newHistoryCommand(o *options) *cobra.Command {
	var (
		limit int
		flaky int
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent runs, or the cases of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			if cfg.HistoryDB == "" {
				return errors.New("no history database configured")
			}
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if len(args) == 1 {
				cases, err := store.Cases(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "CASE\tSTATUS\tDURATION\tFAILURES\tFIRST FAILURE")
				for _, c := range cases {
					fmt.Fprintf(w, "%s/%s\t%s\t%s\t%d\t%s\n",
						c.Suite, c.Scenario, c.Status, c.Duration.Round(time.Millisecond), c.Failures, firstLine(c.FirstFailure))
				}
				return w.Flush()
			}

			runs, err := store.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "RUN\tSTARTED\tDRIVER\tPASSED\tFAILED\tSKIPPED\tDURATION")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.Started.Local().Format(time.DateTime), r.Driver, r.Passed, r.Failed, r.Skipped, r.Duration.Round(time.Millisecond))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if flaky > 0 {
				names, err := store.Flaky(ctx, flaky)
				if err != nil {
					return err
				}
				if len(names) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFlaky in the last %d runs:\n", flaky)
					for _, n := range names {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to list")
	cmd.Flags().IntVar(&flaky, "flaky", 10, "report cases that both passed and failed within this many runs, 0 disables")
	return cmd
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
