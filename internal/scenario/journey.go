// File: internal/scenario/journey.go
package scenario

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/bankapi"
	"github.com/qaforge/bankjourney/internal/browser"
	"github.com/qaforge/bankjourney/internal/config"
	"github.com/qaforge/bankjourney/internal/pages"
	"github.com/qaforge/bankjourney/internal/statestore"
	"github.com/qaforge/bankjourney/internal/testdata"
)

// transferAmount is the fixed amount the journey moves and then pays out.
const transferAmount = "50.00"

// balanceTolerance absorbs the rounding differences between displayed and
// computed amounts.
const balanceTolerance = 0.01

// BuildUIJourney assembles the full banking journey: register a fresh user,
// open a savings account, observe its balance, transfer funds out of it,
// verify the decrease, pay a bill from it, and finish with a best-effort API
// corroboration. Discovered values are written to the state store as each
// step produces them.
func BuildUIJourney(
	driver browser.Driver,
	api *bankapi.Client,
	store *statestore.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Scenario {
	baseURL := cfg.Target.BaseURL
	log := logger.Named("journey")

	registration := pages.NewRegistrationPage(driver, logger, baseURL)
	home := pages.NewHomePage(driver, logger, baseURL)
	overview := pages.NewAccountsOverviewPage(driver, logger, baseURL)
	openAccount := pages.NewOpenAccountPage(driver, logger, baseURL)
	transfer := pages.NewTransferFundsPage(driver, logger, baseURL)
	billPay := pages.NewBillPayPage(driver, logger, baseURL)

	// Values discovered by earlier steps and consumed by later ones.
	var (
		user           testdata.RegistrationData
		sourceAccount  string
		savingsAccount string
		initialBalance float64
	)

	return &Scenario{
		Name: "banking-journey",
		Steps: []Step{
			{
				Name: "register new user",
				Run: func(ctx context.Context) error {
					user = testdata.NewRegistrationData()
					if err := registration.Open(ctx); err != nil {
						return err
					}
					if err := registration.Register(ctx, user); err != nil {
						return err
					}
					if err := registration.VerifySuccess(ctx); err != nil {
						return err
					}
					if err := registration.VerifyLoggedIn(ctx); err != nil {
						return err
					}
					return store.SetUserData(statestore.UserData{
						Username:  user.Username,
						Password:  user.Password,
						FirstName: user.FirstName,
						LastName:  user.LastName,
					})
				},
			},
			{
				Name: "verify global navigation",
				Run: func(ctx context.Context) error {
					return home.VerifyNavigation(ctx)
				},
			},
			{
				Name: "locate funding account",
				Run: func(ctx context.Context) error {
					if err := overview.Open(ctx); err != nil {
						return err
					}
					if err := overview.VerifyDisplayed(ctx); err != nil {
						return err
					}
					var err error
					sourceAccount, err = overview.FirstAccountID(ctx)
					return err
				},
			},
			{
				Name: "open savings account",
				Run: func(ctx context.Context) error {
					if err := openAccount.Open(ctx); err != nil {
						return err
					}
					var err error
					savingsAccount, err = openAccount.OpenAccount(ctx, pages.AccountTypeSavings, sourceAccount)
					if err != nil {
						return err
					}
					log.Info("Savings account created.", zap.String("account_id", savingsAccount))
					return store.SetAccountNumber(savingsAccount)
				},
			},
			{
				Name: "verify account listed in overview",
				Run: func(ctx context.Context) error {
					if err := overview.Open(ctx); err != nil {
						return err
					}
					return overview.VerifyAccountListed(ctx, savingsAccount)
				},
			},
			{
				Name: "observe initial balance",
				Run: func(ctx context.Context) error {
					var err error
					initialBalance, err = overview.Balance(ctx, savingsAccount)
					if err != nil {
						return err
					}
					if initialBalance < 0 {
						return fmt.Errorf("new account %s shows negative balance %.2f",
							savingsAccount, initialBalance)
					}
					return store.SetInitialBalance(initialBalance)
				},
			},
			{
				Name: "transfer funds out",
				Run: func(ctx context.Context) error {
					if err := transfer.Open(ctx); err != nil {
						return err
					}
					if err := transfer.Transfer(ctx, transferAmount, savingsAccount, sourceAccount); err != nil {
						return err
					}
					return transfer.VerifyComplete(ctx)
				},
			},
			{
				Name: "verify balance decreased by transfer amount",
				Run: func(ctx context.Context) error {
					if err := overview.Open(ctx); err != nil {
						return err
					}
					observed, err := overview.Balance(ctx, savingsAccount)
					if err != nil {
						return err
					}
					expected := initialBalance - 50.00
					if math.Abs(observed-expected) > balanceTolerance {
						return fmt.Errorf("balance after transfer is %.2f, want %.2f (initial %.2f minus %s)",
							observed, expected, initialBalance, transferAmount)
					}
					return nil
				},
			},
			{
				Name: "pay bill from savings account",
				Run: func(ctx context.Context) error {
					if err := billPay.Open(ctx); err != nil {
						return err
					}
					if err := billPay.VerifyLoaded(ctx); err != nil {
						return err
					}
					payee := testdata.NewBillPaymentData()
					payee.Amount = transferAmount
					if err := billPay.PayBill(ctx, payee, savingsAccount); err != nil {
						return err
					}
					if err := billPay.VerifyComplete(ctx); err != nil {
						return err
					}
					return store.SetPaymentData(payee.Amount, savingsAccount)
				},
			},
			{
				Name: "corroborate payment via API",
				Run: func(ctx context.Context) error {
					// Supplementary evidence only: the journey already
					// verified through the UI, so API problems are logged
					// and skipped.
					bestEffort(ctx, log, "transaction search", cfg.Network.APITimeout, func(ctx context.Context) error {
						result, err := api.FindTransactionsByAmount(ctx, savingsAccount, transferAmount)
						if err != nil {
							return err
						}
						found, err := result.ContainsAmount(transferAmount)
						if err != nil {
							return err
						}
						if found {
							log.Info("API corroborated the payment amount.",
								zap.String("account_id", savingsAccount))
						} else {
							log.Info("API returned a well-formed result without a matching transaction.",
								zap.Int("transactions", len(result.Transactions)))
						}
						return nil
					})
					return nil
				},
			},
		},
	}
}

// BuildLoginCheck is a short negative scenario: wrong credentials must be
// rejected with a visible error.
func BuildLoginCheck(driver browser.Driver, cfg *config.Config, logger *zap.Logger) *Scenario {
	login := pages.NewLoginPage(driver, logger, cfg.Target.BaseURL)

	return &Scenario{
		Name: "login-rejection",
		Steps: []Step{
			{
				Name: "attempt login with bad credentials",
				Run: func(ctx context.Context) error {
					if err := login.Open(ctx); err != nil {
						return err
					}
					return login.Login(ctx, "no-such-user", "wrong-password")
				},
			},
			{
				Name: "verify login rejected",
				Run: func(ctx context.Context) error {
					return login.VerifyLoginFailed(ctx)
				},
			},
		},
	}
}
