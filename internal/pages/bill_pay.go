// File: internal/pages/bill_pay.go
package pages

import (
	"context"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/browser"
	"github.com/qaforge/bankjourney/internal/testdata"
)

// BillPayPage drives the bill-payment form. The demo site styles this form
// inconsistently across deployments, so every field carries a name-based
// fallback selector.
type BillPayPage struct {
	basePage

	payeeName       *browser.Element
	address         *browser.Element
	city            *browser.Element
	state           *browser.Element
	zipCode         *browser.Element
	phone           *browser.Element
	account         *browser.Element
	verifyAccount   *browser.Element
	amount          *browser.Element
	sendButton      *browser.Element
	completeHeading *browser.Element
	pageTitle       *browser.Element
}

func NewBillPayPage(driver browser.Driver, logger *zap.Logger, baseURL string) *BillPayPage {
	p := &BillPayPage{basePage: newBasePage(driver, logger, baseURL, "bill-pay")}
	p.payeeName = p.element("payee-name", `input[name="payee.name"]`, `input[name*="payee"]`)
	p.address = p.element("payee-address", `input[name="payee.address.street"]`, `input[name*="street"]`)
	p.city = p.element("payee-city", `input[name="payee.address.city"]`, `input[name*="city"]`)
	p.state = p.element("payee-state", `input[name="payee.address.state"]`, `input[name*="state"]`)
	p.zipCode = p.element("payee-zip", `input[name="payee.address.zipCode"]`, `input[name*="zip"]`)
	p.phone = p.element("payee-phone", `input[name="payee.phoneNumber"]`, `input[name*="phone"]`)
	p.account = p.element("payee-account", `input[name="payee.accountNumber"]`, `input[name*="account"]`)
	p.verifyAccount = p.element("verify-account", `input[name="verifyAccount"]`, `input[name*="verify"]`)
	p.amount = p.element("amount", `input[name="amount"]`, `#amount`)
	p.sendButton = p.element("send-button", `input[value="Send Payment"]`, `input[type="submit"]`)
	p.completeHeading = p.element("complete-heading", `#billpayResult h1.title`, `h1.title`)
	p.pageTitle = p.element("page-title", `.title`, `h1`)
	return p
}

// Open navigates to the bill-pay form.
func (p *BillPayPage) Open(ctx context.Context) error {
	return p.open(ctx, "/parabank/billpay.htm")
}

// VerifyLoaded asserts the form is reachable.
func (p *BillPayPage) VerifyLoaded(ctx context.Context) error {
	return p.verify(ctx, p.pageTitle, "Bill Pay", "Bill Payment Service")
}

// PayBill fills the payee details, selects the paying account and submits.
// An empty fromAccountID keeps the form's default selection.
func (p *BillPayPage) PayBill(ctx context.Context, data testdata.BillPaymentData, fromAccountID string) error {
	fields := []struct {
		el    *browser.Element
		value string
	}{
		{p.payeeName, data.PayeeName},
		{p.address, data.Address},
		{p.city, data.City},
		{p.state, data.State},
		{p.zipCode, data.ZipCode},
		{p.phone, data.Phone},
		{p.account, data.AccountNumber},
		{p.verifyAccount, data.AccountNumber},
		{p.amount, data.Amount},
	}
	for _, f := range fields {
		if err := f.el.Fill(ctx, f.value); err != nil {
			return err
		}
	}
	if fromAccountID != "" {
		fromAccount := p.element("from-account", `select[name="fromAccountId"]`, `#fromAccountId`)
		if err := fromAccount.SelectOption(ctx, fromAccountID); err != nil {
			return err
		}
	}
	return p.sendButton.Click(ctx)
}

// VerifyComplete asserts the payment confirmation rendered. The confirmation
// heading has shifted across deployments, so the fallback scan accepts the
// weaker wording the site has used.
func (p *BillPayPage) VerifyComplete(ctx context.Context) error {
	return p.verify(ctx, p.completeHeading,
		"Bill Payment Complete", "complete", "successful", "paid")
}
