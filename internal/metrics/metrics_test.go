package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/groph-points/internal/domain"
)

func TestResultLabel(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{err: nil, want: ResultOK},
		{err: domain.NewPointError(domain.ErrInvalidAmount, 1, 0, 0), want: ResultInvalidAmount},
		{err: domain.ErrChargeLimitExceeded, want: ResultChargeLimitExceeded},
		{err: fmt.Errorf("charge: %w", domain.ErrBalanceCapExceeded), want: ResultBalanceCapExceeded},
		{err: domain.ErrInsufficientBalance, want: ResultInsufficientBalance},
		{err: domain.ErrLockTimeout, want: ResultLockTimeout},
		{err: errors.New("db down"), want: ResultError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ResultLabel(tc.err))
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveOperation("charge", nil)
	m.ObserveOperation("charge", nil)
	m.ObserveOperation("use", domain.ErrInsufficientBalance)
	m.ObserveLockWait(time.Millisecond)
	require.NoError(t, m.TrackActiveLocks(func() float64 { return 3 }))

	require.InDelta(t, 2, testutil.ToFloat64(m.operations.WithLabelValues("charge", ResultOK)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("use", ResultInsufficientBalance)), 0)

	count, err := testutil.GatherAndCount(reg, "points_lock_wait_seconds", "points_active_locks")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveOperation("charge", nil)
		m.ObserveLockWait(time.Second)
		require.NoError(t, m.TrackActiveLocks(func() float64 { return 0 }))
	})
}
