package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/networkteam/staycheck/scenario"
)

func newListCommand(b Backend, o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the selected scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			selected, err := scenario.Filter(b.suites(), cfg.Suites)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range selected {
				for _, sc := range s.Scenarios {
					var marks []string
					if sc.Focus {
						marks = append(marks, "focus")
					}
					if sc.Skip != "" {
						marks = append(marks, "skip: "+sc.Skip)
					}
					line := scenario.FullName(s.Name, sc.Name)
					if len(marks) > 0 {
						line += " [" + strings.Join(marks, ", ") + "]"
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}
