// File: cmd/clear.go
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/observability"
	"github.com/qaforge/bankjourney/internal/statestore"
)

// newClearStateCmd creates the `clear-state` command, which resets the
// cross-step state record so the next run starts from a clean slate.
func newClearStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-state",
		Short: "Deletes the persisted cross-step state record",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			store, err := statestore.Open(cfg.Run.StateFile, logger)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			logger.Info("Cross-step state cleared.", zap.String("path", store.Path()))
			return nil
		},
	}
}
