// File: internal/pages/accounts_overview.go
package pages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/qaforge/bankjourney/internal/browser"
)

var accountIDPattern = regexp.MustCompile(`id=(\d+)`)

// AccountsOverviewPage reads the account listing: which accounts exist and
// what balance each shows. It is a pure observer; nothing here mutates the
// bank's state.
type AccountsOverviewPage struct {
	basePage

	accountTable *browser.Element
	firstAccount *browser.Element
}

func NewAccountsOverviewPage(driver browser.Driver, logger *zap.Logger, baseURL string) *AccountsOverviewPage {
	p := &AccountsOverviewPage{basePage: newBasePage(driver, logger, baseURL, "accounts-overview")}
	p.accountTable = p.element("account-table", `#accountTable`, `.account-table`, `table`)
	p.firstAccount = p.element("first-account-link", `a[href*="activity"]`)
	return p
}

// Open navigates straight to the overview.
func (p *AccountsOverviewPage) Open(ctx context.Context) error {
	return p.open(ctx, "/parabank/overview.htm")
}

// VerifyDisplayed asserts the account listing rendered.
func (p *AccountsOverviewPage) VerifyDisplayed(ctx context.Context) error {
	return p.verify(ctx, p.accountTable, "Accounts Overview", "Balance")
}

// FirstAccountID extracts the account identifier from the first account link,
// typically the checking account created at registration.
func (p *AccountsOverviewPage) FirstAccountID(ctx context.Context) (string, error) {
	href, ok, err := p.firstAccount.AttributeValue(ctx, "href")
	if err != nil {
		return "", fmt.Errorf("could not locate an account link: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("account link has no href attribute")
	}
	m := accountIDPattern.FindStringSubmatch(href)
	if m == nil {
		return "", fmt.Errorf("could not extract account id from link %q", href)
	}
	return m[1], nil
}

// AccountIDs lists every account identifier in the overview, in display
// order.
func (p *AccountsOverviewPage) AccountIDs(ctx context.Context) ([]string, error) {
	if _, err := p.firstAccount.WaitVisible(ctx); err != nil {
		return nil, err
	}
	raw, err := p.driver.OuterHTML(ctx)
	if err != nil {
		return nil, err
	}
	return accountIDsFromHTML(raw)
}

// VerifyAccountListed asserts that the given account appears in the listing.
func (p *AccountsOverviewPage) VerifyAccountListed(ctx context.Context, accountID string) error {
	ids, err := p.AccountIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == accountID {
			return nil
		}
	}
	return fmt.Errorf("account %s not present in overview (found %v)", accountID, ids)
}

// Balance returns the displayed balance of the given account. The overview
// table keys rows by the account's activity link, so the balance cell is
// located relative to that link rather than by a fragile column selector.
func (p *AccountsOverviewPage) Balance(ctx context.Context, accountID string) (float64, error) {
	if _, err := p.firstAccount.WaitVisible(ctx); err != nil {
		return 0, err
	}
	raw, err := p.driver.OuterHTML(ctx)
	if err != nil {
		return 0, err
	}
	text, err := balanceTextFromHTML(raw, accountID)
	if err != nil {
		return 0, err
	}
	return ParseCurrency(text)
}

// accountIDsFromHTML collects account identifiers from every activity link in
// the document.
func accountIDsFromHTML(rawHTML string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse overview HTML: %w", err)
	}
	var ids []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok && strings.Contains(href, "activity") {
				if m := accountIDPattern.FindStringSubmatch(href); m != nil {
					ids = append(ids, m[1])
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ids, nil
}

// balanceTextFromHTML finds the table row holding the account's activity
// link and returns the text of the following cell, which the overview uses
// for the balance column.
func balanceTextFromHTML(rawHTML, accountID string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse overview HTML: %w", err)
	}

	var found string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			href, ok := attr(n, "href")
			if ok && strings.Contains(href, "id="+accountID) {
				row := ancestor(n, "tr")
				if row == nil {
					return false
				}
				cells := childElements(row, "td")
				if len(cells) < 2 {
					return false
				}
				found = strings.TrimSpace(nodeText(cells[1]))
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(doc) || found == "" {
		return "", fmt.Errorf("no balance cell found for account %s", accountID)
	}
	return found, nil
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func ancestor(n *html.Node, tag string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}

func childElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
