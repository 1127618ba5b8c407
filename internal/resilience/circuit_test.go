package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(t *testing.T, metrics *Metrics) (*Breaker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	b := NewBreaker(Config{Target: "redis", MinRequests: 2, FailureRatio: 0.5, OpenFor: time.Second, Metrics: metrics})
	b.now = clock.now
	return b, clock
}

func TestBreakerTransitions(t *testing.T) {
	breaker, clock := newTestBreaker(t, nil)
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	require.Equal(t, Open, breaker.State())
	require.False(t, breaker.Allow(ctx))

	clock.advance(time.Second)
	require.True(t, breaker.Allow(ctx))
	require.Equal(t, HalfOpen, breaker.State())
	require.False(t, breaker.Allow(ctx), "only one probe while half-open")

	breaker.Report(ctx, true)
	require.Equal(t, Closed, breaker.State())
	require.True(t, breaker.Allow(ctx))
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	breaker, clock := newTestBreaker(t, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	for range 2 {
		require.ErrorIs(t, breaker.Do(ctx, func(context.Context) error { return boom }), boom)
	}
	require.ErrorIs(t, breaker.Do(ctx, func(context.Context) error { return nil }), ErrOpenCircuit)

	clock.advance(time.Second)
	require.ErrorIs(t, breaker.Do(ctx, func(context.Context) error { return boom }), boom)
	require.Equal(t, Open, breaker.State())
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	breaker, _ := newTestBreaker(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 3 {
		err := breaker.Do(ctx, func(ctx context.Context) error { return ctx.Err() })
		require.ErrorIs(t, err, context.Canceled)
	}
	require.Equal(t, Closed, breaker.State())
}

func TestBreakerMetrics(t *testing.T) {
	metrics := NewMetrics("test", prometheus.NewRegistry())
	breaker, clock := newTestBreaker(t, metrics)
	ctx := context.Background()

	require.Equal(t, 0.0, testutil.ToFloat64(metrics.State.WithLabelValues("redis")))
	breaker.Report(ctx, false)
	breaker.Report(ctx, false)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.State.WithLabelValues("redis")))

	clock.advance(time.Second)
	require.True(t, breaker.Allow(ctx))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.State.WithLabelValues("redis")))
	breaker.Report(ctx, true)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("redis", "closed", "open")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("redis", "open", "half_open")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("redis", "half_open", "closed")))
}

func TestNilBreakerAllows(t *testing.T) {
	var breaker *Breaker
	require.True(t, breaker.Allow(context.Background()))
	require.NoError(t, breaker.Do(context.Background(), func(context.Context) error { return nil }))
}
