// Package cli builds the command line of the staycheck runners. Each runner
// binary plugs in its own browser backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/internal/config"
	"github.com/networkteam/staycheck/scenario"
	"github.com/networkteam/staycheck/suites"
)

// ErrCasesFailed is returned by the run command when at least one case failed.
var ErrCasesFailed = errors.New("cases failed")

// Backend is the browser automation library of a runner.
type Backend struct {
	// Use is the name of the binary.
	Use   string
	Short string
	// Defaults adjusts the default configuration before file, environment
	// and flags are applied.
	Defaults func(cfg *config.Config)
	// Launch starts a browser for a run.
	Launch func(cfg config.Config) (driver.Launcher, error)
	// Suites returns the suites to choose from. Default: suites.All
	Suites func() []scenario.Suite
	// Commands are added to the root command.
	Commands []*cobra.Command
}

func (b Backend) defaults() config.Config {
	cfg := config.Default()
	if b.Defaults != nil {
		b.Defaults(&cfg)
	}
	return cfg
}

func (b Backend) suites() []scenario.Suite {
	if b.Suites != nil {
		return b.Suites()
	}
	return suites.All()
}

// NewRootCommand returns the root command with all subcommands.
func NewRootCommand(b Backend) *cobra.Command {
	o := newOptions(b.defaults())

	root := &cobra.Command{
		Use:           b.Use,
		Short:         b.Short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	o.register(root.PersistentFlags())

	root.AddCommand(
		newRunCommand(b, o),
		newListCommand(b, o),
		newReportCommand(o),
		newHistoryCommand(o),
		newDemoCommand(o),
	)
	root.AddCommand(b.Commands...)
	return root
}

// Execute runs the root command of b with os.Args and returns the exit code.
func Execute(b Backend) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(b)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrCasesFailed) {
			fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
