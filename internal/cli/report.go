package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/networkteam/staycheck/internal/report"
)

func newReportCommand(o *options) *cobra.Command {
	var (
		raw      bool
		htmlFile string
	)

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Show a JSON report written by run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			filename := cfg.ReportFile
			if len(args) == 1 {
				filename = args[0]
			}
			if filename == "" {
				return errors.New("no report file given")
			}

			if raw {
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("reading report: %w", err)
				}
				return report.Highlight(cmd.OutOrStdout(), data)
			}

			res, err := report.ReadFile(filename)
			if err != nil {
				return err
			}
			if htmlFile != "" {
				f, err := os.Create(htmlFile)
				if err != nil {
					return fmt.Errorf("creating %s: %w", htmlFile, err)
				}
				if err := report.WriteHTML(f, res); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			}
			return report.Summary(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&raw, "json", false, "print the highlighted JSON instead of the summary")
	cmd.Flags().StringVar(&htmlFile, "html", "", "write an HTML page to this file")
	return cmd
}
