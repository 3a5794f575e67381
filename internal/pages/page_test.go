// File: internal/pages/page_test.go
package pages

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/browser"
)

// stubDriver is a canned-response Driver for exercising page objects without
// a browser.
type stubDriver struct {
	mu        sync.Mutex
	visible   map[string]bool
	texts     map[string]string
	attrs     map[string]map[string]string
	fills     map[string]string
	clicks    []string
	selects   map[string]string
	document  string
	navigated []string
}

func newStubDriver() *stubDriver {
	return &stubDriver{
		visible: map[string]bool{},
		texts:   map[string]string{},
		attrs:   map[string]map[string]string{},
		fills:   map[string]string{},
		selects: map[string]string{},
	}
}

func (d *stubDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *stubDriver) Exists(ctx context.Context, selector string) (bool, error) {
	return d.IsVisible(ctx, selector)
}

func (d *stubDriver) IsVisible(ctx context.Context, selector string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible[selector], nil
}

func (d *stubDriver) Fill(ctx context.Context, selector, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fills[selector] = value
	return nil
}

func (d *stubDriver) Click(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks = append(d.clicks, selector)
	return nil
}

func (d *stubDriver) SelectOption(ctx context.Context, selector, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selects[selector] = value
	return nil
}

func (d *stubDriver) Text(ctx context.Context, selector string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.texts[selector], nil
}

func (d *stubDriver) AttributeValue(ctx context.Context, selector, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	attrs, ok := d.attrs[selector]
	if !ok {
		return "", false, nil
	}
	v, ok := attrs[name]
	return v, ok, nil
}

func (d *stubDriver) OuterHTML(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.document, nil
}

func (d *stubDriver) Title(ctx context.Context) (string, error)    { return "", nil }
func (d *stubDriver) Location(ctx context.Context) (string, error) { return "", nil }
func (d *stubDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return nil, nil
}

// fastVerify shrinks element waits so negative verification paths finish
// quickly.
func fastVerify(p *basePage) {
	p.policy = browser.Policy{
		WaitTimeout:  150 * time.Millisecond,
		PollInterval: 20 * time.Millisecond,
		Attempts:     1,
	}
}

const overviewHTML = `
<html><body>
<h1 class="title">Accounts Overview</h1>
<table id="accountTable">
  <tr><th>Account</th><th>Balance</th><th>Available</th></tr>
  <tr><td><a href="activity.htm?id=13344">13344</a></td><td>$515.50</td><td>$515.50</td></tr>
  <tr><td><a href="activity.htm?id=13455">13455</a></td><td>$1,100.00</td><td>$1,100.00</td></tr>
  <tr><td><b>Total</b></td><td><b>$1,615.50</b></td><td></td></tr>
</table>
<script>var ignored = "$9,999.99";</script>
</body></html>`

func TestExtractTextSkipsScriptAndStyle(t *testing.T) {
	text, err := extractText(`<html><head><style>.x{color:red}</style></head>` +
		`<body><p>Transfer Complete!</p><script>var x = "hidden";</script></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, text, "Transfer Complete!")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "color:red")
}

func TestVerifyPrimarySignalWithMatchingText(t *testing.T) {
	driver := newStubDriver()
	driver.visible["h1.title"] = true
	driver.texts["h1.title"] = "Welcome JourneyUser"

	base := newBasePage(driver, zap.NewNop(), "http://bank.test", "home")
	fastVerify(&base)
	signal := base.element("title", "h1.title")

	assert.NoError(t, base.verify(context.Background(), signal, "Welcome"))
}

func TestVerifyFallsBackToPageScan(t *testing.T) {
	driver := newStubDriver()
	// Signal element never renders, but the page text carries the evidence.
	driver.document = `<html><body><p>Your transfer is complete.</p></body></html>`

	base := newBasePage(driver, zap.NewNop(), "http://bank.test", "transfer")
	fastVerify(&base)
	signal := base.element("heading", "#showResult h1.title")

	assert.NoError(t, base.verify(context.Background(), signal, "Transfer Complete!", "complete"))
}

func TestVerifySignalWithWrongTextFallsBack(t *testing.T) {
	driver := newStubDriver()
	driver.visible["h1.title"] = true
	driver.texts["h1.title"] = "Error Occurred"
	driver.document = `<html><body><h1>Error Occurred</h1></body></html>`

	base := newBasePage(driver, zap.NewNop(), "http://bank.test", "transfer")
	fastVerify(&base)
	signal := base.element("heading", "h1.title")

	err := base.verify(context.Background(), signal, "Transfer Complete")
	require.Error(t, err, "fallback must still require a positive signal")
}

func TestVerifyNeverDefaultsToSuccess(t *testing.T) {
	driver := newStubDriver()
	driver.document = `<html><body><p>Something else entirely</p></body></html>`

	base := newBasePage(driver, zap.NewNop(), "http://bank.test", "billpay")
	fastVerify(&base)
	signal := base.element("heading", "#billpayResult h1.title")

	err := base.verify(context.Background(), signal, "Bill Payment Complete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bill Payment Complete")
}

func TestLoginPageFillsAndSubmits(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`input[name="username"]`] = true
	driver.visible[`input[name="password"]`] = true
	driver.visible[`input[value="Log In"]`] = true

	page := NewLoginPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	require.NoError(t, page.Open(context.Background()))
	require.NoError(t, page.Login(context.Background(), "john", "demo"))

	assert.Equal(t, []string{"http://bank.test/parabank/index.htm"}, driver.navigated)
	assert.Equal(t, "john", driver.fills[`input[name="username"]`])
	assert.Equal(t, "demo", driver.fills[`input[name="password"]`])
	assert.Equal(t, []string{`input[value="Log In"]`}, driver.clicks)
}

func TestAccountsOverviewBalance(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`a[href*="activity"]`] = true
	driver.document = overviewHTML

	page := NewAccountsOverviewPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	balance, err := page.Balance(context.Background(), "13455")
	require.NoError(t, err)
	assert.InDelta(t, 1100.00, balance, 0.001)

	balance, err = page.Balance(context.Background(), "13344")
	require.NoError(t, err)
	assert.InDelta(t, 515.50, balance, 0.001)
}

func TestAccountsOverviewBalanceUnknownAccount(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`a[href*="activity"]`] = true
	driver.document = overviewHTML

	page := NewAccountsOverviewPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	_, err := page.Balance(context.Background(), "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99999")
}

func TestAccountsOverviewIDsAndListing(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`a[href*="activity"]`] = true
	driver.document = overviewHTML

	page := NewAccountsOverviewPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	ids, err := page.AccountIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"13344", "13455"}, ids)

	assert.NoError(t, page.VerifyAccountListed(context.Background(), "13455"))
	assert.Error(t, page.VerifyAccountListed(context.Background(), "70000"))
}

func TestAccountsOverviewFirstAccountID(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`a[href*="activity"]`] = true
	driver.attrs[`a[href*="activity"]`] = map[string]string{"href": "activity.htm?id=13344"}

	page := NewAccountsOverviewPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	id, err := page.FirstAccountID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "13344", id)
}

func TestOpenAccountCapturesNumericID(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`#type`] = true
	driver.visible[`#fromAccountId`] = true
	driver.visible[`input[value="Open New Account"]`] = true
	driver.visible[`#openAccountResult h1.title`] = true
	driver.texts[`#openAccountResult h1.title`] = "Account Opened!"
	driver.visible[`#newAccountId`] = true
	driver.texts[`#newAccountId`] = " 14676 "

	page := NewOpenAccountPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	id, err := page.OpenAccount(context.Background(), AccountTypeSavings, "13344")
	require.NoError(t, err)
	assert.Equal(t, "14676", id)
	assert.Equal(t, AccountTypeSavings, driver.selects[`#type`])
	assert.Equal(t, "13344", driver.selects[`#fromAccountId`])
}

func TestOpenAccountRejectsNonNumericID(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`#type`] = true
	driver.visible[`input[value="Open New Account"]`] = true
	driver.visible[`#openAccountResult h1.title`] = true
	driver.texts[`#openAccountResult h1.title`] = "Account Opened!"
	driver.visible[`#newAccountId`] = true
	driver.texts[`#newAccountId`] = "pending"

	page := NewOpenAccountPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	_, err := page.OpenAccount(context.Background(), AccountTypeChecking, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending")
}

func TestTransferFundsFlow(t *testing.T) {
	driver := newStubDriver()
	driver.visible[`#amount`] = true
	driver.visible[`#fromAccountId`] = true
	driver.visible[`#toAccountId`] = true
	driver.visible[`input[value="Transfer"]`] = true

	page := NewTransferFundsPage(driver, zap.NewNop(), "http://bank.test")
	fastVerify(&page.basePage)

	require.NoError(t, page.Transfer(context.Background(), "50.00", "14676", "13344"))
	assert.Equal(t, "50.00", driver.fills[`#amount`])
	assert.Equal(t, "14676", driver.selects[`#fromAccountId`])
	assert.Equal(t, "13344", driver.selects[`#toAccountId`])
	assert.Equal(t, []string{`input[value="Transfer"]`}, driver.clicks)
}
