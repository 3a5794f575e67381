// File: internal/scenario/apicheck.go
package scenario

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/bankapi"
	"github.com/qaforge/bankjourney/internal/statestore"
)

// BuildAPICheck builds the independently scheduled API scenario. It reads
// the account and payment values a prior UI run persisted and reconciles
// them against the bank's API. Absent state fields mean the producing step
// has not run yet; the affected checks are skipped, not failed. A matching
// transaction and a well-formed empty result are both passing outcomes, but
// a malformed response is a genuine failure.
func BuildAPICheck(api *bankapi.Client, store *statestore.Store, logger *zap.Logger) *Scenario {
	log := logger.Named("apicheck")

	return &Scenario{
		Name: "api-reconciliation",
		Steps: []Step{
			{
				Name: "search transactions by recorded payment amount",
				Run: func(ctx context.Context) error {
					amount, accountID, ok := store.PaymentData()
					if !ok {
						log.Info("No payment recorded yet, skipping search check.")
						return nil
					}
					result, err := api.FindTransactionsByAmount(ctx, accountID, amount)
					if err != nil {
						return fmt.Errorf("transaction search broke its contract: %w", err)
					}
					if result.Empty() {
						log.Info("Search capability returned no transactions; accepting empty result.",
							zap.String("account_id", accountID))
						return nil
					}
					found, err := result.ContainsAmount(amount)
					if err != nil {
						return err
					}
					if !found {
						return fmt.Errorf("search returned %d transactions for account %s but none match amount %s",
							len(result.Transactions), accountID, amount)
					}
					log.Info("Recorded payment corroborated by API.",
						zap.String("account_id", accountID),
						zap.String("amount", amount))
					return nil
				},
			},
			{
				Name: "list transactions for recorded account",
				Run: func(ctx context.Context) error {
					accountID, ok := store.AccountNumber()
					if !ok {
						log.Info("No account recorded yet, skipping listing check.")
						return nil
					}
					result, err := api.GetAccountTransactions(ctx, accountID)
					if err != nil {
						return err
					}
					for _, txn := range result.Transactions {
						if txn.AccountID != "" && string(txn.AccountID) != accountID {
							return fmt.Errorf("listing for account %s contains foreign transaction %s (account %s)",
								accountID, txn.ID, txn.AccountID)
						}
					}
					log.Info("Account listing is consistent.",
						zap.String("account_id", accountID),
						zap.Int("transactions", len(result.Transactions)))
					return nil
				},
			},
		},
	}
}
