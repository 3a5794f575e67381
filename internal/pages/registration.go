// File: internal/pages/registration.go
package pages

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/browser"
	"github.com/qaforge/bankjourney/internal/testdata"
)

// RegistrationPage drives the user sign-up form. Registration is modeled
// separately from login because a successful registration also establishes
// the authenticated session.
type RegistrationPage struct {
	basePage

	firstName       *browser.Element
	lastName        *browser.Element
	address         *browser.Element
	city            *browser.Element
	state           *browser.Element
	zipCode         *browser.Element
	phone           *browser.Element
	ssn             *browser.Element
	username        *browser.Element
	password        *browser.Element
	confirmPassword *browser.Element
	registerButton  *browser.Element
	welcomeTitle    *browser.Element
	navigationMenu  *browser.Element
	errorMessage    *browser.Element
}

func NewRegistrationPage(driver browser.Driver, logger *zap.Logger, baseURL string) *RegistrationPage {
	p := &RegistrationPage{basePage: newBasePage(driver, logger, baseURL, "registration")}
	p.firstName = p.element("first-name", `input[name="customer.firstName"]`)
	p.lastName = p.element("last-name", `input[name="customer.lastName"]`)
	p.address = p.element("address", `input[name="customer.address.street"]`)
	p.city = p.element("city", `input[name="customer.address.city"]`)
	p.state = p.element("state", `input[name="customer.address.state"]`)
	p.zipCode = p.element("zip-code", `input[name="customer.address.zipCode"]`)
	p.phone = p.element("phone", `input[name="customer.phoneNumber"]`)
	p.ssn = p.element("ssn", `input[name="customer.ssn"]`)
	p.username = p.element("username", `input[name="customer.username"]`)
	p.password = p.element("password", `input[name="customer.password"]`)
	p.confirmPassword = p.element("confirm-password", `input[name="repeatedPassword"]`)
	p.registerButton = p.element("register-button", `input[value="Register"]`)
	p.welcomeTitle = p.element("welcome-title", `h1.title`, `.title`)
	p.navigationMenu = p.element("navigation-menu",
		`a[href*="openaccount"]`, `a[href*="overview"]`)
	p.errorMessage = p.element("registration-error", `span.error`, `.error`)
	return p
}

// Open navigates to the registration form.
func (p *RegistrationPage) Open(ctx context.Context) error {
	return p.open(ctx, "/parabank/register.htm")
}

// FillForm populates every registration field without submitting.
func (p *RegistrationPage) FillForm(ctx context.Context, data testdata.RegistrationData) error {
	fields := []struct {
		el    *browser.Element
		value string
	}{
		{p.firstName, data.FirstName},
		{p.lastName, data.LastName},
		{p.address, data.Address},
		{p.city, data.City},
		{p.state, data.State},
		{p.zipCode, data.ZipCode},
		{p.phone, data.Phone},
		{p.ssn, data.SSN},
		{p.username, data.Username},
		{p.password, data.Password},
		{p.confirmPassword, data.ConfirmPassword},
	}
	for _, f := range fields {
		if err := f.el.Fill(ctx, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Submit clicks the register button.
func (p *RegistrationPage) Submit(ctx context.Context) error {
	return p.registerButton.Click(ctx)
}

// Register fills the form and submits it.
func (p *RegistrationPage) Register(ctx context.Context, data testdata.RegistrationData) error {
	if err := p.FillForm(ctx, data); err != nil {
		return err
	}
	return p.Submit(ctx)
}

// VerifySuccess asserts that registration landed on an authenticated view.
// The demo site greets new users with a welcome title; environments that have
// restyled it still carry the corroborating text.
func (p *RegistrationPage) VerifySuccess(ctx context.Context) error {
	return p.verify(ctx, p.welcomeTitle,
		"Welcome", "Account Services", "Accounts Overview")
}

// VerifyLoggedIn asserts the post-registration session is live by requiring
// the account navigation menu, which only renders for authenticated users.
func (p *RegistrationPage) VerifyLoggedIn(ctx context.Context) error {
	if _, err := p.navigationMenu.WaitVisible(ctx); err != nil {
		return fmt.Errorf("no authenticated navigation after registration: %w", err)
	}
	return nil
}

// ErrorMessage returns the validation error text, or empty when the form
// shows none.
func (p *RegistrationPage) ErrorMessage(ctx context.Context) (string, error) {
	visible, err := p.errorMessage.IsVisible(ctx)
	if err != nil {
		return "", err
	}
	if !visible {
		return "", nil
	}
	return p.errorMessage.Text(ctx)
}
