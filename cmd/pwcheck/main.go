// Command pwcheck runs the Shady Meadows B&B suites with Playwright.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/driver/pwdriver"
	"github.com/networkteam/staycheck/internal/cli"
	"github.com/networkteam/staycheck/internal/config"
)

func main() {
	os.Exit(cli.Execute(cli.Backend{
		Use:   "pwcheck",
		Short: "Browser checks for the Shady Meadows B&B site, driven by Playwright",
		Launch: func(cfg config.Config) (driver.Launcher, error) {
			return pwdriver.Launch(pwdriver.Options{
				BaseURL:  cfg.BaseURL,
				Browser:  cfg.Browser,
				Headless: cfg.Headless,
				Timeout:  cfg.Timeout,
			})
		},
		Commands: []*cobra.Command{installCommand()},
	}))
}

func installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install [browser...]",
		Short: "Install the Playwright driver and browsers (default: chromium)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"chromium"}
			}
			return pwdriver.Install(args...)
		},
	}
}
