// File: internal/browser/driver.go
package browser

import "context"

// Driver is the narrow contract the element and page layers need from the
// underlying automation engine. The chromedp-backed Session implements it;
// tests substitute fakes.
type Driver interface {
	// Navigate loads the URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error
	// Exists reports whether any element matches the selector right now.
	Exists(ctx context.Context, selector string) (bool, error)
	// IsVisible reports whether the first match for the selector is rendered
	// with a non-empty box and not hidden via CSS.
	IsVisible(ctx context.Context, selector string) (bool, error)
	// Fill clears the matched input and types the value into it.
	Fill(ctx context.Context, selector, value string) error
	// Click scrolls the matched element into view and clicks it.
	Click(ctx context.Context, selector string) error
	// SelectOption selects the option with the given value on a <select>.
	SelectOption(ctx context.Context, selector, value string) error
	// Text returns the visible text of the first match.
	Text(ctx context.Context, selector string) (string, error)
	// AttributeValue returns the named attribute of the first match.
	AttributeValue(ctx context.Context, selector, name string) (string, bool, error)
	// OuterHTML returns the serialized current document.
	OuterHTML(ctx context.Context) (string, error)
	// Title returns the document title.
	Title(ctx context.Context) (string, error)
	// Location returns the current URL.
	Location(ctx context.Context) (string, error)
	// Screenshot captures the viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
}
