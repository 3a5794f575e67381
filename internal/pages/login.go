// File: internal/pages/login.go
package pages

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/browser"
)

// LoginPage drives the landing page's login panel.
type LoginPage struct {
	basePage

	username     *browser.Element
	password     *browser.Element
	loginButton  *browser.Element
	errorMessage *browser.Element
}

func NewLoginPage(driver browser.Driver, logger *zap.Logger, baseURL string) *LoginPage {
	p := &LoginPage{basePage: newBasePage(driver, logger, baseURL, "login")}
	p.username = p.element("username", `input[name="username"]`)
	p.password = p.element("password", `input[name="password"]`)
	p.loginButton = p.element("login-button", `input[value="Log In"]`, `input[type="submit"]`)
	p.errorMessage = p.element("login-error", `p.error`, `.error`)
	return p
}

// Open navigates to the landing page.
func (p *LoginPage) Open(ctx context.Context) error {
	return p.open(ctx, "/parabank/index.htm")
}

// Login submits the credentials.
func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	if err := p.username.Fill(ctx, username); err != nil {
		return err
	}
	if err := p.password.Fill(ctx, password); err != nil {
		return err
	}
	return p.loginButton.Click(ctx)
}

// VerifyLoginFailed asserts that the login attempt was rejected with a
// non-empty error message.
func (p *LoginPage) VerifyLoginFailed(ctx context.Context) error {
	msg, err := p.errorMessage.Text(ctx)
	if err != nil {
		return fmt.Errorf("expected a login error message: %w", err)
	}
	if strings.TrimSpace(msg) == "" {
		return fmt.Errorf("login error message is present but empty")
	}
	return nil
}
