// File: internal/scenario/runner.go
package scenario

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/qaforge/bankjourney/internal/browser"
	"github.com/qaforge/bankjourney/internal/config"
)

// Factory builds a scenario against the browser session the runner provides.
// Each execution attempt gets a fresh session, so factories must not retain
// driver state across calls.
type Factory func(driver browser.Driver) *Scenario

// Runner executes scenarios, owning the browser lifecycle around each one.
// Sessions are acquired per scenario and released unconditionally, including
// on failure paths.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger.Named("runner")}
}

// RunBrowser executes the given factories concurrently, one isolated browser
// session per scenario. A failing scenario does not cancel its siblings;
// the first failure is reported after every scenario has finished.
func (r *Runner) RunBrowser(ctx context.Context, factories ...Factory) error {
	var g errgroup.Group
	for _, factory := range factories {
		g.Go(func() error {
			return r.runWithRetries(ctx, factory)
		})
	}
	return g.Wait()
}

// runWithRetries drives one scenario through its retry budget, launching a
// fresh browser for every attempt.
func (r *Runner) runWithRetries(ctx context.Context, factory Factory) error {
	attempts := r.cfg.Run.RetryAttempts + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = r.runOnce(ctx, factory, attempt)
		if lastErr == nil {
			return nil
		}
		r.logger.Warn("Scenario attempt failed.",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(lastErr))
	}
	return lastErr
}

func (r *Runner) runOnce(ctx context.Context, factory Factory, attempt int) error {
	session, err := browser.Launch(ctx, r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer session.Close()

	sc := factory(session)
	execErr := sc.Execute(ctx, r.logger)
	if execErr != nil && r.cfg.Run.ScreenshotOnFailure {
		r.captureFailure(ctx, session, sc.Name, attempt)
	}
	return execErr
}

// captureFailure saves a screenshot of the failed state into the artifacts
// directory. Capture problems are logged, never propagated; the scenario's
// own error is what matters.
func (r *Runner) captureFailure(ctx context.Context, session *browser.Session, scenarioName string, attempt int) {
	shotCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	png, err := session.Screenshot(shotCtx)
	if err != nil {
		r.logger.Warn("Could not capture failure screenshot.", zap.Error(err))
		return
	}
	dir := r.cfg.Run.ArtifactsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.logger.Warn("Could not create artifacts directory.", zap.String("dir", dir), zap.Error(err))
		return
	}
	name := fmt.Sprintf("%s-attempt%d-%s.png", scenarioName, attempt, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		r.logger.Warn("Could not write failure screenshot.", zap.String("path", path), zap.Error(err))
		return
	}
	r.logger.Info("Failure screenshot saved.", zap.String("path", path))
}

// RunScenario executes one scenario that needs no browser, such as the API
// reconciliation check.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) error {
	return sc.Execute(ctx, r.logger)
}
