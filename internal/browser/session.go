// File: internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qaforge/bankjourney/internal/config"
)

// Session represents one live browser tab bound to a single scenario. It
// implements Driver on top of chromedp and owns the allocator and tab
// contexts for its whole lifetime.
type Session struct {
	id          string
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger
	cfg         *config.Config

	closeOnce sync.Once
}

var _ Driver = (*Session)(nil)

// Launch starts a browser process and connects a fresh tab to it. The
// returned session must be closed by the caller, including on failure paths.
func Launch(parentCtx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.New().String()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	for _, arg := range cfg.Browser.Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		id:          sessionID,
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		logger:      logger.Named("browser").With(zap.String("session_id", sessionID)),
		cfg:         cfg,
	}

	// Ensure the target exists and apply the configured viewport.
	initCtx, initCancel := context.WithTimeout(tabCtx, cfg.Network.NavigationTimeout)
	defer initCancel()
	if err := chromedp.Run(initCtx,
		emulation.SetDeviceMetricsOverride(
			int64(cfg.Browser.ViewportWidth), int64(cfg.Browser.ViewportHeight), 1.0, false),
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize browser session: %w", err)
	}

	s.logger.Info("Browser session started.",
		zap.Bool("headless", cfg.Browser.Headless),
		zap.Int("viewport_width", cfg.Browser.ViewportWidth),
		zap.Int("viewport_height", cfg.Browser.ViewportHeight))
	return s, nil
}

// ID returns the session identifier used in logs and artifact names.
func (s *Session) ID() string {
	return s.id
}

// Close tears the tab and browser process down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.logger.Info("Closing browser session.")
		s.cancel()
		s.allocCancel()
	})
}

// runActions executes chromedp actions under both the session lifetime and
// the caller's context, bounded by the default interaction timeout.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	opCtx, opCancel := CombineContext(s.ctx, ctx)
	defer opCancel()

	timeout := s.cfg.Network.DefaultTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, runCancel := context.WithTimeout(opCtx, timeout)
	defer runCancel()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the URL and waits for the page to stabilize.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))

	opCtx, opCancel := CombineContext(s.ctx, ctx)
	defer opCancel()

	navTimeout := s.cfg.Network.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	navCtx, navCancel := context.WithTimeout(opCtx, navTimeout)
	defer navCancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %s: %w", url, navTimeout, err)
		}
		if opCtx.Err() != nil {
			return fmt.Errorf("navigation canceled: %w", opCtx.Err())
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	if err := s.stabilize(opCtx); err != nil {
		if opCtx.Err() != nil {
			return opCtx.Err()
		}
		s.logger.Warn("Page stabilization incomplete after navigation.", zap.Error(err))
	}
	return nil
}

// stabilize waits for the DOM to be ready plus a quiet settle period. The
// demo site renders server-side, so readiness plus a bounded wait is enough.
func (s *Session) stabilize(ctx context.Context) error {
	stabCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := chromedp.Run(stabCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return err
	}

	settle := s.cfg.Network.PostLoadWait
	if settle <= 0 {
		return nil
	}
	select {
	case <-time.After(settle):
		return nil
	case <-stabCtx.Done():
		return stabCtx.Err()
	}
}

// Exists reports whether any element matches the selector.
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	script := fmt.Sprintf("document.querySelector(%q) !== null", selector)
	if err := s.runActions(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return false, fmt.Errorf("existence check failed for selector %q: %w", selector, err)
	}
	return found, nil
}

// IsVisible reports whether the first match is actually rendered.
func (s *Session) IsVisible(ctx context.Context, selector string) (bool, error) {
	var visible bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		return rect.width > 0 && rect.height > 0 &&
			style.visibility !== 'hidden' && style.display !== 'none';
	})()`, selector)
	if err := s.runActions(ctx, chromedp.Evaluate(script, &visible)); err != nil {
		return false, fmt.Errorf("visibility check failed for selector %q: %w", selector, err)
	}
	return visible, nil
}

// Fill clears the matched input and types the value into it.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	tasks := chromedp.Tasks{
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	}
	if err := s.runActions(ctx, tasks); err != nil {
		return fmt.Errorf("fill failed for selector %q: %w", selector, err)
	}
	return nil
}

// Click scrolls the matched element into view and clicks it.
func (s *Session) Click(ctx context.Context, selector string) error {
	tasks := chromedp.Tasks{
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	}
	if err := s.runActions(ctx, tasks); err != nil {
		return fmt.Errorf("click failed for selector %q: %w", selector, err)
	}
	return nil
}

// SelectOption selects the option with the given value and fires the change
// events a real selection would.
func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	var found bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el || el.tagName.toLowerCase() !== 'select') return false;
		const option = Array.from(el.options).find(o => o.value === %q || o.text.trim() === %q);
		if (!option) return false;
		el.value = option.value;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, selector, value, value)

	tasks := chromedp.Tasks{
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(script, &found),
	}
	if err := s.runActions(ctx, tasks); err != nil {
		return fmt.Errorf("select failed for selector %q: %w", selector, err)
	}
	if !found {
		return fmt.Errorf("option %q not present in select %q", value, selector)
	}
	return nil
}

// Text returns the visible text of the first match.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var out string
	if err := s.runActions(ctx, chromedp.Text(selector, &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("text read failed for selector %q: %w", selector, err)
	}
	return out, nil
}

// AttributeValue returns the named attribute of the first match.
func (s *Session) AttributeValue(ctx context.Context, selector, name string) (string, bool, error) {
	var value string
	var ok bool
	if err := s.runActions(ctx, chromedp.AttributeValue(selector, name, &value, &ok, chromedp.ByQuery)); err != nil {
		return "", false, fmt.Errorf("attribute read failed for selector %q: %w", selector, err)
	}
	return value, ok, nil
}

// OuterHTML returns the serialized current document.
func (s *Session) OuterHTML(ctx context.Context) (string, error) {
	var out string
	if err := s.runActions(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("document read failed: %w", err)
	}
	return out, nil
}

// Title returns the document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.runActions(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("title read failed: %w", err)
	}
	return title, nil
}

// Location returns the current URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.runActions(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("location read failed: %w", err)
	}
	return loc, nil
}

// Screenshot captures the viewport as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.runActions(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// CombineContext creates a context canceled when either parent is canceled.
// Browser operations must respect both the session lifetime and the caller's
// per-operation deadline.
func CombineContext(parentCtx, secondaryCtx context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(parentCtx)

	go func() {
		select {
		case <-secondaryCtx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	return combinedCtx, cancel
}
