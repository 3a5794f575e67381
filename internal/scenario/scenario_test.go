// File: internal/scenario/scenario_test.go
package scenario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScenarioExecutesStepsInOrder(t *testing.T) {
	var order []string
	sc := &Scenario{
		Name: "ordering",
		Steps: []Step{
			{Name: "first", Run: func(ctx context.Context) error {
				order = append(order, "first")
				return nil
			}},
			{Name: "second", Run: func(ctx context.Context) error {
				order = append(order, "second")
				return nil
			}},
		},
	}

	require.NoError(t, sc.Execute(context.Background(), zap.NewNop()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestScenarioStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("element never appeared")
	var ranThird bool

	sc := &Scenario{
		Name: "failing",
		Steps: []Step{
			{Name: "ok", Run: func(ctx context.Context) error { return nil }},
			{Name: "breaks", Run: func(ctx context.Context) error { return boom }},
			{Name: "unreachable", Run: func(ctx context.Context) error {
				ranThird = true
				return nil
			}},
		},
	}

	err := sc.Execute(context.Background(), zap.NewNop())
	require.Error(t, err)
	assert.False(t, ranThird)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "failing", stepErr.Scenario)
	assert.Equal(t, "breaks", stepErr.Step)
	assert.ErrorIs(t, err, boom)
}

func TestScenarioHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &Scenario{
		Name: "canceled",
		Steps: []Step{
			{Name: "never runs", Run: func(ctx context.Context) error {
				t.Fatal("step must not run under a canceled context")
				return nil
			}},
		},
	}

	err := sc.Execute(ctx, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBestEffortSwallowsErrors(t *testing.T) {
	called := false
	bestEffort(context.Background(), zap.NewNop(), "check", time.Second, func(ctx context.Context) error {
		called = true
		return errors.New("api is down")
	})
	assert.True(t, called, "the check itself must still run")
}

func TestBestEffortEnforcesDeadline(t *testing.T) {
	start := time.Now()
	bestEffort(context.Background(), zap.NewNop(), "slow check", 50*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.Less(t, time.Since(start), time.Second, "a slow check must not stall the scenario")
}
