// File: internal/pages/home.go
package pages

import (
	"context"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/browser"
)

// HomePage is the logged-in dashboard. It exists mostly for navigation and
// for asserting that a session is live.
type HomePage struct {
	basePage

	welcomeTitle *browser.Element
	navigation   *browser.Element
	overviewLink *browser.Element
	openAcctLink *browser.Element
	transferLink *browser.Element
	billPayLink  *browser.Element
	logoutLink   *browser.Element
}

func NewHomePage(driver browser.Driver, logger *zap.Logger, baseURL string) *HomePage {
	p := &HomePage{basePage: newBasePage(driver, logger, baseURL, "home")}
	p.welcomeTitle = p.element("welcome-title", `h1.title`, `.title`)
	p.navigation = p.element("navigation",
		`a[href*="openaccount"]`, `a[href*="overview"]`, `a[href*="transfer"]`)
	p.overviewLink = p.element("overview-link", `a[href*="overview"]`)
	p.openAcctLink = p.element("open-account-link", `a[href*="openaccount"]`)
	p.transferLink = p.element("transfer-link", `a[href*="transfer"]`)
	p.billPayLink = p.element("bill-pay-link", `a[href*="billpay"]`)
	p.logoutLink = p.element("logout-link", `a[href*="logout"]`)
	return p
}

// VerifyLoggedIn asserts the welcome title of an authenticated session.
func (p *HomePage) VerifyLoggedIn(ctx context.Context) error {
	return p.verify(ctx, p.welcomeTitle, "Welcome", "Account Services")
}

// VerifyNavigation asserts the global account menu is rendered.
func (p *HomePage) VerifyNavigation(ctx context.Context) error {
	_, err := p.navigation.WaitVisible(ctx)
	return err
}

func (p *HomePage) GoToAccountsOverview(ctx context.Context) error {
	return p.overviewLink.Click(ctx)
}

func (p *HomePage) GoToOpenAccount(ctx context.Context) error {
	return p.openAcctLink.Click(ctx)
}

func (p *HomePage) GoToTransferFunds(ctx context.Context) error {
	return p.transferLink.Click(ctx)
}

func (p *HomePage) GoToBillPay(ctx context.Context) error {
	return p.billPayLink.Click(ctx)
}

// Logout ends the session via the navigation link.
func (p *HomePage) Logout(ctx context.Context) error {
	return p.logoutLink.Click(ctx)
}
