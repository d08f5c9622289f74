// Package config loads run configuration from defaults, an optional YAML
// file and STAYCHECK_* environment variables. Command line flags are applied
// on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of one run.
type Config struct {
	// BaseURL is the site under test.
	BaseURL string `yaml:"base_url"`
	// Suites is a comma separated list of globs over suite and
	// "suite/scenario" names. Empty selects everything.
	Suites string `yaml:"suites"`
	// IgnoreAppErrors keeps cases running when the application throws
	// uncaught errors.
	IgnoreAppErrors bool `yaml:"ignore_app_errors"`
	// Timeout bounds element waits and assertion polling.
	Timeout time.Duration `yaml:"timeout"`
	Workers int           `yaml:"workers"`
	// Rate limits new sessions per second, 0 is unlimited.
	Rate     float64 `yaml:"rate"`
	Headless bool    `yaml:"headless"`
	// Browser selects the Playwright engine: chromium, firefox or webkit.
	Browser string `yaml:"browser"`
	// HonorFocus runs only focused scenarios when any are marked.
	HonorFocus bool `yaml:"honor_focus"`

	ReportFile  string `yaml:"report_file"`
	MetricsFile string `yaml:"metrics_file"`
	HistoryDB   string `yaml:"history_db"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
}

// Default returns the configuration used without file or environment.
func Default() Config {
	return Config{
		BaseURL:   "https://automationintesting.online",
		Timeout:   10 * time.Second,
		Workers:   2,
		Rate:      2,
		Headless:  true,
		Browser:   "chromium",
		LogFormat: "console",
		LogLevel:  "info",
	}
}

// Load applies the YAML file at filename (if not empty) and the environment
// on top of base.
func Load(base Config, filename string) (Config, error) {
	cfg := base
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", filename, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup("STAYCHECK_" + key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup("STAYCHECK_" + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("STAYCHECK_%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup("STAYCHECK_" + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("STAYCHECK_%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("BASE_URL", &c.BaseURL)
	str("SUITES", &c.Suites)
	boolean("IGNORE_APP_ERRORS", &c.IgnoreAppErrors)
	if v, ok := lookup("STAYCHECK_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("STAYCHECK_TIMEOUT: %w", err))
		} else {
			c.Timeout = d
		}
	}
	integer("WORKERS", &c.Workers)
	if v, ok := lookup("STAYCHECK_RATE"); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("STAYCHECK_RATE: %w", err))
		} else {
			c.Rate = r
		}
	}
	boolean("HEADLESS", &c.Headless)
	str("BROWSER", &c.Browser)
	boolean("HONOR_FOCUS", &c.HonorFocus)
	str("REPORT_FILE", &c.ReportFile)
	str("METRICS_FILE", &c.MetricsFile)
	str("HISTORY_DB", &c.HistoryDB)
	str("LOG_FORMAT", &c.LogFormat)
	str("LOG_LEVEL", &c.LogLevel)

	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("base_url: scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("base_url: missing host"))
	}

	for _, glob := range strings.Split(c.Suites, ",") {
		if _, err := path.Match(strings.TrimSpace(glob), ""); err != nil {
			errs = append(errs, fmt.Errorf("suites: %q: %w", glob, err))
		}
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout: must be positive, got %s", c.Timeout))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers: must be positive, got %d", c.Workers))
	}
	if c.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate: must not be negative, got %g", c.Rate))
	}
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		errs = append(errs, fmt.Errorf("browser: unknown browser %q", c.Browser))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format: must be json or console, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
