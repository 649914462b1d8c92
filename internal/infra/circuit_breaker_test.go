package infra_test

import (
	"errors"
	"testing"
	"time"

	"stockpilot/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newTestCB(openTimeout time.Duration) *infra.CircuitBreaker {
	return infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	})
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := newTestCB(time.Minute)
	fail := func() error { return errBoom }

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBoom)
	}
	assert.Equal(t, infra.CBOpen, cb.State())

	// While open, calls fast-fail without invoking fn.
	invoked := false
	err := cb.Execute(func() error { invoked = true; return nil })
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.False(t, invoked)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newTestCB(time.Minute)
	fail := func() error { return errBoom }
	ok := func() error { return nil }

	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))
	require.NoError(t, cb.Execute(ok))
	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))

	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbeRecovery(t *testing.T) {
	cb := newTestCB(10 * time.Millisecond)
	fail := func() error { return errBoom }
	ok := func() error { return nil }

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(fail))
	}
	require.Equal(t, infra.CBOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, infra.CBHalfOpen, cb.State())

	// Two consecutive probe successes close the circuit.
	require.NoError(t, cb.Execute(ok))
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	cb := newTestCB(10 * time.Millisecond)
	fail := func() error { return errBoom }

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(fail))
	}
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, infra.CBHalfOpen, cb.State())

	require.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, infra.CBOpen, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", infra.CBClosed.String())
	assert.Equal(t, "open", infra.CBOpen.String())
	assert.Equal(t, "half-open", infra.CBHalfOpen.String())
}
