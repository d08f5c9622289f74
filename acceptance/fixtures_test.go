//go:build acceptance
// +build acceptance

package acceptance

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/driver/cdpdriver"
	"github.com/networkteam/staycheck/driver/pwdriver"
	"github.com/networkteam/staycheck/internal/report"
	"github.com/networkteam/staycheck/internal/testsite"
	"github.com/networkteam/staycheck/scenario"
)

const actionTimeout = 10 * time.Second

// headless is false when HEADLESS=false, for watching a browser while debugging.
func headless() bool {
	return os.Getenv("HEADLESS") != "false"
}

// NewSite serves the local site for the duration of the test.
func NewSite(t *testing.T, opts testsite.Options) string {
	t.Helper()

	opts.Logger = zerolog.Nop()
	srv := httptest.NewServer(testsite.NewHandler(opts))
	t.Cleanup(srv.Close)
	return srv.URL
}

type launchFunc func(t *testing.T, baseURL string) driver.Launcher

var launchers = map[string]launchFunc{
	"playwright": func(t *testing.T, baseURL string) driver.Launcher {
		l, err := pwdriver.Launch(pwdriver.Options{
			BaseURL:  baseURL,
			Headless: headless(),
			Timeout:  actionTimeout,
		})
		require.NoError(t, err, "failed to launch playwright")
		return l
	},
	"chromedp": func(t *testing.T, baseURL string) driver.Launcher {
		l, err := cdpdriver.Launch(cdpdriver.Options{
			BaseURL:  baseURL,
			Headless: headless(),
			ExecPath: os.Getenv("STAYCHECK_CHROME_PATH"),
			Timeout:  actionTimeout,
		})
		require.NoError(t, err, "failed to launch chrome")
		return l
	},
}

// WithDrivers runs fn once per driver against a fresh local site.
func WithDrivers(t *testing.T, opts testsite.Options, fn func(t *testing.T, l driver.Launcher)) {
	t.Helper()

	for name, launch := range launchers {
		t.Run(name, func(t *testing.T) {
			l := launch(t, NewSite(t, opts))
			t.Cleanup(func() { _ = l.Close() })
			fn(t, l)
		})
	}
}

// WithSession runs fn with one session per driver.
func WithSession(t *testing.T, fn func(t *testing.T, d driver.Session)) {
	t.Helper()

	WithDrivers(t, testsite.Options{}, func(t *testing.T, l driver.Launcher) {
		s, err := l.NewSession(t.Context())
		require.NoError(t, err, "failed to start session")
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func run(t *testing.T, l driver.Launcher, opts scenario.Options, suites ...scenario.Suite) scenario.Result {
	t.Helper()

	opts.Logger = zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.WarnLevel)
	if opts.Timeout == 0 {
		opts.Timeout = actionTimeout
	}
	res, err := scenario.NewRunner(l, opts).Run(t.Context(), suites...)
	require.NoError(t, err)

	var summary strings.Builder
	_ = report.Summary(&summary, res)
	t.Log("\n" + summary.String())
	return res
}
