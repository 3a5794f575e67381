// File: cmd/apicheck.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/qaforge/bankjourney/internal/bankapi"
	"github.com/qaforge/bankjourney/internal/observability"
	"github.com/qaforge/bankjourney/internal/scenario"
	"github.com/qaforge/bankjourney/internal/statestore"
)

// newAPICheckCmd creates the `api-check` command. It runs the API
// reconciliation scenario on its own, typically after a `run` in a separate
// process, picking the account and payment values up from the persisted
// state record.
func newAPICheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api-check",
		Short: "Reconciles the persisted journey state against the bank's transaction API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			store, err := statestore.Shared(cfg.Run.StateFile, logger)
			if err != nil {
				return err
			}
			api := bankapi.NewClient(cfg.Target.APIBaseURL, logger,
				bankapi.WithTimeout(cfg.Network.APITimeout))

			runner := scenario.NewRunner(cfg, logger)
			return runner.RunScenario(cmd.Context(), scenario.BuildAPICheck(api, store, logger))
		},
	}
}
