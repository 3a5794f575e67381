// File: internal/pages/transfer_funds.go
package pages

import (
	"context"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/browser"
)

// TransferFundsPage drives the transfer form.
type TransferFundsPage struct {
	basePage

	amount          *browser.Element
	fromAccount     *browser.Element
	toAccount       *browser.Element
	transferButton  *browser.Element
	completeHeading *browser.Element
}

func NewTransferFundsPage(driver browser.Driver, logger *zap.Logger, baseURL string) *TransferFundsPage {
	p := &TransferFundsPage{basePage: newBasePage(driver, logger, baseURL, "transfer-funds")}
	p.amount = p.element("amount", `#amount`, `input[name="amount"]`)
	p.fromAccount = p.element("from-account", `#fromAccountId`, `select[name="fromAccountId"]`)
	p.toAccount = p.element("to-account", `#toAccountId`, `select[name="toAccountId"]`)
	p.transferButton = p.element("transfer-button", `input[value="Transfer"]`, `input[type="submit"]`)
	p.completeHeading = p.element("complete-heading", `#showResult h1.title`, `h1.title`)
	return p
}

// Open navigates to the transfer form.
func (p *TransferFundsPage) Open(ctx context.Context) error {
	return p.open(ctx, "/parabank/transfer.htm")
}

// Transfer moves the amount between accounts. Empty account ids keep the
// form's default selections.
func (p *TransferFundsPage) Transfer(ctx context.Context, amount, fromAccountID, toAccountID string) error {
	if err := p.amount.Fill(ctx, amount); err != nil {
		return err
	}
	if fromAccountID != "" {
		if err := p.fromAccount.SelectOption(ctx, fromAccountID); err != nil {
			return err
		}
	}
	if toAccountID != "" {
		if err := p.toAccount.SelectOption(ctx, toAccountID); err != nil {
			return err
		}
	}
	return p.transferButton.Click(ctx)
}

// VerifyComplete asserts the transfer confirmation rendered.
func (p *TransferFundsPage) VerifyComplete(ctx context.Context) error {
	return p.verify(ctx, p.completeHeading, "Transfer Complete!", "Transfer Complete")
}
