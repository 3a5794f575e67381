// File: cmd/run.go
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/bankapi"
	"github.com/qaforge/bankjourney/internal/browser"
	"github.com/qaforge/bankjourney/internal/observability"
	"github.com/qaforge/bankjourney/internal/scenario"
	"github.com/qaforge/bankjourney/internal/statestore"
)

// newRunCmd creates the `run` command, which executes the browser journeys.
func newRunCmd() *cobra.Command {
	var (
		headed         bool
		retries        int
		screenshots    bool
		withLoginCheck bool
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the end-to-end banking journey against the configured deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			if headed {
				cfg.Browser.Headless = false
			}
			if cmd.Flags().Changed("retries") {
				cfg.Run.RetryAttempts = retries
			}
			if screenshots {
				cfg.Run.ScreenshotOnFailure = true
			}

			store, err := statestore.Shared(cfg.Run.StateFile, logger)
			if err != nil {
				return err
			}
			api := bankapi.NewClient(cfg.Target.APIBaseURL, logger,
				bankapi.WithTimeout(cfg.Network.APITimeout))

			factories := []scenario.Factory{
				func(driver browser.Driver) *scenario.Scenario {
					return scenario.BuildUIJourney(driver, api, store, cfg, logger)
				},
			}
			if withLoginCheck {
				factories = append(factories, func(driver browser.Driver) *scenario.Scenario {
					return scenario.BuildLoginCheck(driver, cfg, logger)
				})
			}

			runner := scenario.NewRunner(cfg, logger)
			start := time.Now()
			if err := runner.RunBrowser(ctx, factories...); err != nil {
				return err
			}
			logger.Info("All scenarios passed.", zap.Duration("elapsed", time.Since(start)))
			return nil
		},
	}

	runCmd.Flags().BoolVar(&headed, "headed", false, "run with a visible browser window")
	runCmd.Flags().IntVar(&retries, "retries", 0, "extra attempts per scenario after a failure")
	runCmd.Flags().BoolVar(&screenshots, "screenshots", false, "capture a screenshot when a scenario fails")
	runCmd.Flags().BoolVar(&withLoginCheck, "with-login-check", false, "also run the negative login scenario")
	return runCmd
}
