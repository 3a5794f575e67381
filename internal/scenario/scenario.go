// File: internal/scenario/scenario.go

// Package scenario composes page objects, the API client and the state store
// into ordered journeys with explicit verification checkpoints. Steps within
// one scenario run strictly in declared order because the domain has a true
// causal chain; independent scenarios may run concurrently, each with its
// own browser session.
package scenario

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step is one named unit of a journey. A step either mutates the target
// through a page object or verifies a checkpoint.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError names the step that broke the journey along with the underlying
// contract violation.
type StepError struct {
	Scenario string
	Step     string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("scenario %q failed at step %q: %v", e.Scenario, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Scenario is an ordered sequence of steps sharing one browser session and
// one state-store view.
type Scenario struct {
	Name  string
	Steps []Step
}

// Execute runs every step in order, stopping at the first failure. The
// returned error identifies the failing step.
func (s *Scenario) Execute(ctx context.Context, logger *zap.Logger) error {
	log := logger.Named("scenario").With(zap.String("scenario", s.Name))
	log.Info("Scenario starting.", zap.Int("steps", len(s.Steps)))

	for i, step := range s.Steps {
		stepLog := log.With(zap.String("step", step.Name), zap.Int("index", i+1))
		stepLog.Info("Step starting.")
		start := time.Now()

		if err := ctx.Err(); err != nil {
			return &StepError{Scenario: s.Name, Step: step.Name, Err: err}
		}
		if err := step.Run(ctx); err != nil {
			stepLog.Error("Step failed.", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
			return &StepError{Scenario: s.Name, Step: step.Name, Err: err}
		}
		stepLog.Info("Step complete.", zap.Duration("elapsed", time.Since(start)))
	}

	log.Info("Scenario complete.")
	return nil
}

// bestEffort races fn against a fixed deadline and swallows both timeouts
// and errors. Corroborating API checks use it so the journey's success never
// depends on the demo API's availability or latency; a skipped check is
// logged and the scenario continues.
func bestEffort(ctx context.Context, logger *zap.Logger, name string, deadline time.Duration, fn func(ctx context.Context) error) {
	checkCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(checkCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Warn("Best-effort check failed, continuing.",
				zap.String("check", name),
				zap.Error(err))
		}
	case <-checkCtx.Done():
		logger.Warn("Best-effort check timed out, skipping.",
			zap.String("check", name),
			zap.Duration("deadline", deadline))
	}
}
