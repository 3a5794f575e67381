// File: internal/pages/page.go

// Package pages models the bank's screens as page objects. Each page bundles
// the element contracts for one screen and exposes the operations a scenario
// needs: mutators that drive forms and verifiers that assert post-conditions
// without mutating anything.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/qaforge/bankjourney/internal/browser"
)

// basePage carries what every page object needs: the driver it is bound to,
// the site base URL and a shared interaction policy.
type basePage struct {
	driver  browser.Driver
	logger  *zap.Logger
	baseURL string
	policy  browser.Policy
}

func newBasePage(driver browser.Driver, logger *zap.Logger, baseURL, name string) basePage {
	return basePage{
		driver:  driver,
		logger:  logger.Named("pages").With(zap.String("page", name)),
		baseURL: strings.TrimRight(baseURL, "/"),
		policy:  browser.DefaultPolicy(),
	}
}

func (p *basePage) element(name string, selectors ...string) *browser.Element {
	return browser.NewElement(p.driver, p.logger, name, selectors...).WithPolicy(p.policy)
}

// open navigates to a path relative to the site base URL.
func (p *basePage) open(ctx context.Context, relPath string) error {
	url := p.baseURL + "/" + strings.TrimLeft(relPath, "/")
	if err := p.driver.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// verify applies the two-tier completion policy: wait for the page's fast,
// specific signal element and check its text against the expected tokens; if
// the signal never shows or its text does not match, fall back to scanning
// the whole page text for one of the corroborating tokens. The fallback
// still requires a positive match, it never defaults to success.
func (p *basePage) verify(ctx context.Context, signal *browser.Element, tokens ...string) error {
	_, err := signal.WaitVisible(ctx)
	if err == nil {
		text, textErr := signal.Text(ctx)
		if textErr == nil && containsAnyToken(text, tokens) {
			return nil
		}
		err = fmt.Errorf("signal %q visible but text %q matches none of %v",
			signal.Name, strings.TrimSpace(text), tokens)
	} else {
		var nfe *browser.NotFoundError
		if !errors.As(err, &nfe) {
			return err
		}
	}

	p.logger.Debug("Primary signal absent, scanning page text.",
		zap.String("signal", signal.Name),
		zap.Strings("tokens", tokens))

	text, textErr := p.pageText(ctx)
	if textErr != nil {
		return fmt.Errorf("verification fallback could not read page: %w (signal: %v)", textErr, err)
	}
	if containsAnyToken(text, tokens) {
		p.logger.Debug("Corroborating token found in page text.")
		return nil
	}
	return fmt.Errorf("page verification failed: none of %v found in page text: %w",
		tokens, err)
}

func containsAnyToken(text string, tokens []string) bool {
	lower := strings.ToLower(text)
	for _, token := range tokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// pageText extracts the visible text of the current document, skipping
// script and style subtrees.
func (p *basePage) pageText(ctx context.Context) (string, error) {
	raw, err := p.driver.OuterHTML(ctx)
	if err != nil {
		return "", err
	}
	return extractText(raw)
}

func extractText(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				b.WriteString(trimmed)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String(), nil
}
