package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelayDown = errors.New("smtp: connection refused")

func failingBreaker(t *testing.T, failures int) *CircuitBreaker {
	t.Helper()
	cb := NewCircuitBreaker(SMTPBreakerConfig())
	for i := 0; i < failures; i++ {
		err := cb.Execute(func() error { return errRelayDown })
		require.ErrorIs(t, err, errRelayDown)
	}
	return cb
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := failingBreaker(t, 3)
	assert.Equal(t, CBOpen, cb.State())

	// Open means fast-fail: the send function must not run at all.
	ran := false
	err := cb.Execute(func() error { ran = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, ran)
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	cb := failingBreaker(t, 2)
	require.NoError(t, cb.Execute(func() error { return nil }))

	// Two more failures do not reach the threshold of three in a row.
	cb.Execute(func() error { return errRelayDown })
	cb.Execute(func() error { return errRelayDown })
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	now := time.Now()
	cb := failingBreaker(t, 3)
	cb.now = func() time.Time { return now }

	require.Equal(t, CBOpen, cb.State())

	now = now.Add(2*time.Minute + time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Now()
	cb := failingBreaker(t, 3)
	cb.now = func() time.Time { return now }

	now = now.Add(3 * time.Minute)
	require.Equal(t, CBHalfOpen, cb.State())

	err := cb.Execute(func() error { return errRelayDown })
	require.ErrorIs(t, err, errRelayDown)
	assert.Equal(t, CBOpen, cb.State())

	// The fresh cool-down starts from the probe failure.
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrCircuitOpen)
}

func TestCircuitBreaker_StateNames(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
