package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oed-api/internal/observability/metrics"
)

var errDB = errors.New("connection refused")

func testConfig(name string) Config {
	return Config{
		Name:           name,
		HalfOpenProbes: 1,
		Window:         time.Minute,
		Cooldown:       50 * time.Millisecond,
		MinRequests:    4,
		FailureRatio:   0.5,
	}
}

func fail(cb *CircuitBreaker, err error) error {
	_, got := cb.Execute(func() (any, error) { return nil, err })
	return got
}

func succeed(cb *CircuitBreaker) error {
	_, err := cb.Execute(func() (any, error) { return "ok", nil })
	return err
}

func TestExecute_ReturnsResult(t *testing.T) {
	cb := New(testConfig("cb-result"))

	v, err := cb.Execute(func() (any, error) { return int64(42), nil })
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	assert.ErrorIs(t, fail(cb, errDB), errDB)
	assert.Equal(t, "cb-result", cb.Name())
	assert.False(t, cb.IsOpen())
}

func TestTrip(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []error
		wantOpen bool
	}{
		{"below min requests", []error{errDB, errDB, errDB}, false},
		{"ratio below threshold", []error{nil, nil, nil, errDB}, false},
		{"ratio at threshold", []error{nil, errDB, nil, errDB}, true},
		{"all failures", []error{errDB, errDB, errDB, errDB}, true},
		{"cancellations ignored", []error{context.Canceled, context.Canceled, errDB, context.Canceled}, false},
		{"deadline counts", []error{context.DeadlineExceeded, errDB, nil, context.DeadlineExceeded}, true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := New(testConfig(fmt.Sprintf("cb-trip-%d", i)))
			for _, e := range tt.outcomes {
				if e == nil {
					_ = succeed(cb)
				} else {
					_ = fail(cb, e)
				}
			}
			assert.Equal(t, tt.wantOpen, cb.IsOpen())
		})
	}
}

func TestOpenBreakerRejects(t *testing.T) {
	cb := New(testConfig("cb-reject"))
	for range 4 {
		_ = fail(cb, errDB)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, float64(gobreaker.StateOpen), testutil.ToFloat64(metrics.BreakerState.WithLabelValues("cb-reject")))

	called := false
	_, err := cb.Execute(func() (any, error) { called = true; return nil, nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BreakerRejectionsTotal.WithLabelValues("cb-reject")))
}

func TestRecovery(t *testing.T) {
	t.Run("successful probe closes", func(t *testing.T) {
		cb := New(testConfig("cb-recover"))
		for range 4 {
			_ = fail(cb, errDB)
		}
		require.True(t, cb.IsOpen())

		time.Sleep(70 * time.Millisecond)
		assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

		require.NoError(t, succeed(cb))
		assert.Equal(t, gobreaker.StateClosed, cb.State())
		assert.Equal(t, float64(gobreaker.StateClosed), testutil.ToFloat64(metrics.BreakerState.WithLabelValues("cb-recover")))
	})

	t.Run("failed probe reopens", func(t *testing.T) {
		cb := New(testConfig("cb-reopen"))
		for range 4 {
			_ = fail(cb, errDB)
		}
		time.Sleep(70 * time.Millisecond)
		require.Equal(t, gobreaker.StateHalfOpen, cb.State())

		_ = fail(cb, errDB)
		assert.True(t, cb.IsOpen())
	})
}

func TestIgnoreCancellation(t *testing.T) {
	assert.True(t, IgnoreCancellation(nil))
	assert.True(t, IgnoreCancellation(context.Canceled))
	assert.True(t, IgnoreCancellation(fmt.Errorf("count records: %w", context.Canceled)))
	assert.False(t, IgnoreCancellation(context.DeadlineExceeded))
	assert.False(t, IgnoreCancellation(errDB))
}

func TestCustomClassifier(t *testing.T) {
	cfg := testConfig("cb-custom")
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errDB) }
	cb := New(cfg)

	for range 6 {
		_ = fail(cb, errDB)
	}
	assert.False(t, cb.IsOpen())
}
