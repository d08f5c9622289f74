package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/networkteam/staycheck/internal/config"
)

// options holds the persistent flags. Flag values only win over file and
// environment when set on the command line.
type options struct {
	configFile string
	defaults   config.Config
	flags      config.Config
}

func newOptions(defaults config.Config) *options {
	return &options{defaults: defaults, flags: defaults}
}

func (o *options) register(fs *pflag.FlagSet) {
	f := &o.flags
	fs.StringVarP(&o.configFile, "config", "c", "", "YAML configuration file")
	fs.StringVar(&f.BaseURL, "base-url", f.BaseURL, "URL of the site under test")
	fs.StringVarP(&f.Suites, "suites", "s", f.Suites, "comma separated globs over suite and suite/scenario names")
	fs.BoolVar(&f.IgnoreAppErrors, "ignore-app-errors", f.IgnoreAppErrors, "do not fail cases on uncaught application errors")
	fs.DurationVar(&f.Timeout, "timeout", f.Timeout, "timeout of element waits and assertions")
	fs.IntVarP(&f.Workers, "workers", "w", f.Workers, "cases running at the same time")
	fs.Float64Var(&f.Rate, "rate", f.Rate, "new sessions per second, 0 is unlimited")
	fs.BoolVar(&f.Headless, "headless", f.Headless, "run the browser without a window")
	fs.StringVar(&f.Browser, "browser", f.Browser, "browser engine: chromium, firefox or webkit")
	fs.BoolVar(&f.HonorFocus, "honor-focus", f.HonorFocus, "run only focused scenarios when any are marked")
	fs.StringVar(&f.ReportFile, "report-file", f.ReportFile, "write the JSON report to this file")
	fs.StringVar(&f.MetricsFile, "metrics-file", f.MetricsFile, "write Prometheus metrics to this textfile")
	fs.StringVar(&f.HistoryDB, "history-db", f.HistoryDB, "record runs in this SQLite database")
	fs.StringVar(&f.LogFormat, "log-format", f.LogFormat, "log format: console or json")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "log level")
}

// load returns the defaults overlaid with the config file, the environment
// and the flags set on cmd, in that order.
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.defaults, o.configFile)
	if err != nil {
		return cfg, err
	}

	f := o.flags
	apply := map[string]func(){
		"base-url":          func() { cfg.BaseURL = f.BaseURL },
		"suites":            func() { cfg.Suites = f.Suites },
		"ignore-app-errors": func() { cfg.IgnoreAppErrors = f.IgnoreAppErrors },
		"timeout":           func() { cfg.Timeout = f.Timeout },
		"workers":           func() { cfg.Workers = f.Workers },
		"rate":              func() { cfg.Rate = f.Rate },
		"headless":          func() { cfg.Headless = f.Headless },
		"browser":           func() { cfg.Browser = f.Browser },
		"honor-focus":       func() { cfg.HonorFocus = f.HonorFocus },
		"report-file":       func() { cfg.ReportFile = f.ReportFile },
		"metrics-file":      func() { cfg.MetricsFile = f.MetricsFile },
		"history-db":        func() { cfg.HistoryDB = f.HistoryDB },
		"log-format":        func() { cfg.LogFormat = f.LogFormat },
		"log-level":         func() { cfg.LogLevel = f.LogLevel },
	}
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		if fn, ok := apply[flag.Name]; ok {
			fn()
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
