// Command cdpcheck runs the Shady Meadows B&B suites over the Chrome DevTools
// Protocol.
package main

import (
	"os"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/driver/cdpdriver"
	"github.com/networkteam/staycheck/internal/cli"
	"github.com/networkteam/staycheck/internal/config"
)

func main() {
	os.Exit(cli.Execute(cli.Backend{
		Use:   "cdpcheck",
		Short: "Browser checks for the Shady Meadows B&B site, driven over the Chrome DevTools Protocol",
		Defaults: func(cfg *config.Config) {
			// The public site throws on its reservation pages.
			cfg.IgnoreAppErrors = true
		},
		Launch: func(cfg config.Config) (driver.Launcher, error) {
			return cdpdriver.Launch(cdpdriver.Options{
				BaseURL:  cfg.BaseURL,
				Headless: cfg.Headless,
				ExecPath: os.Getenv("STAYCHECK_CHROME_PATH"),
				Timeout:  cfg.Timeout,
			})
		},
	}))
}
