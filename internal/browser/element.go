// File: internal/browser/element.go
package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Policy controls how long element resolution waits and how interactions
// retry when the page is mid-render.
type Policy struct {
	// WaitTimeout bounds a single resolution attempt across all selectors.
	WaitTimeout time.Duration
	// PollInterval is the pause between resolution sweeps.
	PollInterval time.Duration
	// Attempts is the number of times an interaction is retried after the
	// element resolved but the action itself failed.
	Attempts int
}

// DefaultPolicy matches the tolerances the demo bank needs in practice.
func DefaultPolicy() Policy {
	return Policy{
		WaitTimeout:  10 * time.Second,
		PollInterval: 250 * time.Millisecond,
		Attempts:     2,
	}
}

func (p Policy) withDefaults() Policy {
	if p.WaitTimeout <= 0 {
		p.WaitTimeout = 10 * time.Second
	}
	if p.PollInterval <= 0 {
		p.PollInterval = 250 * time.Millisecond
	}
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	return p
}

// Element is a named UI control with an ordered list of CSS selectors. The
// first selector that matches a visible element wins; later entries exist
// because the demo site renders the same control differently across pages.
type Element struct {
	Name      string
	Selectors []string

	driver Driver
	policy Policy
	logger *zap.Logger
}

// NewElement binds a named contract to a driver. Selector order is priority
// order and is preserved.
func NewElement(driver Driver, logger *zap.Logger, name string, selectors ...string) *Element {
	return &Element{
		Name:      name,
		Selectors: selectors,
		driver:    driver,
		policy:    DefaultPolicy(),
		logger:    logger.Named("element").With(zap.String("element", name)),
	}
}

// WithPolicy returns a copy of the element using the given policy.
func (e *Element) WithPolicy(p Policy) *Element {
	clone := *e
	clone.policy = p.withDefaults()
	return &clone
}

// Resolve sweeps the selector list once, in order, and returns the first
// selector matching a visible element. ok is false when nothing matched.
func (e *Element) Resolve(ctx context.Context) (string, bool, error) {
	for _, sel := range e.Selectors {
		visible, err := e.driver.IsVisible(ctx, sel)
		if err != nil {
			return "", false, err
		}
		if visible {
			return sel, true, nil
		}
	}
	return "", false, nil
}

// WaitVisible polls the selector list until one matches a visible element or
// the wait budget is exhausted, in which case it returns a *NotFoundError
// naming every selector tried.
func (e *Element) WaitVisible(ctx context.Context) (string, error) {
	policy := e.policy.withDefaults()
	waitCtx, cancel := context.WithTimeout(ctx, policy.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(policy.PollInterval)
	defer ticker.Stop()

	for {
		sel, ok, err := e.Resolve(waitCtx)
		if err != nil && waitCtx.Err() == nil {
			// Transient evaluation failures during render are retried
			// until the budget runs out.
			e.logger.Debug("Resolution sweep failed, retrying.", zap.Error(err))
		}
		if ok {
			return sel, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", &NotFoundError{
				Name:      e.Name,
				Selectors: e.Selectors,
				Timeout:   policy.WaitTimeout,
			}
		case <-ticker.C:
		}
	}
}

// IsVisible reports whether any selector currently matches a visible
// element, without waiting.
func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	_, ok, err := e.Resolve(ctx)
	return ok, err
}

// interact waits for the element then runs fn against the winning selector,
// re-resolving and retrying when the action fails under the element's policy.
func (e *Element) interact(ctx context.Context, op string, fn func(selector string) error) error {
	policy := e.policy.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		sel, err := e.WaitVisible(ctx)
		if err != nil {
			return err
		}
		if err := fn(sel); err != nil {
			lastErr = err
			e.logger.Debug("Interaction attempt failed.",
				zap.String("op", op),
				zap.String("selector", sel),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("%s on element %q failed after %d attempts: %w",
		op, e.Name, policy.Attempts, lastErr)
}

// Fill types the value into the element after clearing it.
func (e *Element) Fill(ctx context.Context, value string) error {
	return e.interact(ctx, "fill", func(sel string) error {
		return e.driver.Fill(ctx, sel, value)
	})
}

// Click clicks the element.
func (e *Element) Click(ctx context.Context) error {
	return e.interact(ctx, "click", func(sel string) error {
		return e.driver.Click(ctx, sel)
	})
}

// SelectOption selects the option with the given value or label.
func (e *Element) SelectOption(ctx context.Context, value string) error {
	return e.interact(ctx, "select", func(sel string) error {
		return e.driver.SelectOption(ctx, sel, value)
	})
}

// Text returns the element's visible text.
func (e *Element) Text(ctx context.Context) (string, error) {
	var out string
	err := e.interact(ctx, "text", func(sel string) error {
		var readErr error
		out, readErr = e.driver.Text(ctx, sel)
		return readErr
	})
	return out, err
}

// AttributeValue returns the named attribute of the element.
func (e *Element) AttributeValue(ctx context.Context, name string) (string, bool, error) {
	var value string
	var present bool
	err := e.interact(ctx, "attribute", func(sel string) error {
		var readErr error
		value, present, readErr = e.driver.AttributeValue(ctx, sel, name)
		return readErr
	})
	return value, present, err
}
