// File: internal/pages/open_account.go
package pages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/browser"
)

// Account types the open-account form accepts.
const (
	AccountTypeChecking = "CHECKING"
	AccountTypeSavings  = "SAVINGS"
)

var numericIDPattern = regexp.MustCompile(`^\d+$`)

// OpenAccountPage drives the new-account form and captures the identifier of
// the account it creates.
type OpenAccountPage struct {
	basePage

	accountType   *browser.Element
	fromAccount   *browser.Element
	openButton    *browser.Element
	openedHeading *browser.Element
	newAccountID  *browser.Element
}

func NewOpenAccountPage(driver browser.Driver, logger *zap.Logger, baseURL string) *OpenAccountPage {
	p := &OpenAccountPage{basePage: newBasePage(driver, logger, baseURL, "open-account")}
	p.accountType = p.element("account-type", `#type`, `select[name="type"]`)
	p.fromAccount = p.element("from-account", `#fromAccountId`, `select[name="fromAccountId"]`)
	p.openButton = p.element("open-button", `input[value="Open New Account"]`, `input[type="submit"]`)
	p.openedHeading = p.element("opened-heading", `#openAccountResult h1.title`, `h1.title`)
	p.newAccountID = p.element("new-account-id", `#newAccountId`, `a[href*="activity"]`)
	return p
}

// Open navigates to the open-account form.
func (p *OpenAccountPage) Open(ctx context.Context) error {
	return p.open(ctx, "/parabank/openaccount.htm")
}

// OpenAccount creates a new account of the given type, optionally funding it
// from a specific source account, and returns the new account's identifier.
func (p *OpenAccountPage) OpenAccount(ctx context.Context, accountType, fromAccountID string) (string, error) {
	if err := p.accountType.SelectOption(ctx, accountType); err != nil {
		return "", err
	}
	if fromAccountID != "" {
		if err := p.fromAccount.SelectOption(ctx, fromAccountID); err != nil {
			return "", err
		}
	}
	if err := p.openButton.Click(ctx); err != nil {
		return "", err
	}
	if err := p.VerifyOpened(ctx); err != nil {
		return "", err
	}

	id, err := p.newAccountID.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("could not capture new account id: %w", err)
	}
	id = strings.TrimSpace(id)
	if !numericIDPattern.MatchString(id) {
		return "", fmt.Errorf("captured account id %q is not a numeric identifier", id)
	}
	return id, nil
}

// VerifyOpened asserts the confirmation view rendered.
func (p *OpenAccountPage) VerifyOpened(ctx context.Context) error {
	return p.verify(ctx, p.openedHeading, "Account Opened!", "Account Opened")
}
