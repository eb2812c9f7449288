package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("smtp caido")

func fail() error { return errSMTP }
func ok() error   { return nil }

func newTestBreaker() (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	})
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return clock }
	return cb, &clock
}

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb, _ := newTestBreaker()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errSMTP)
	}
	assert.Equal(t, CBOpen, cb.State())

	// open breaker rejects without calling fn
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_ExitoReiniciaElConteo(t *testing.T) {
	cb, _ := newTestBreaker()

	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))
	require.NoError(t, cb.Execute(ok))
	require.Error(t, cb.Execute(fail))
	require.Error(t, cb.Execute(fail))

	// never reached three in a row
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_PruebaYRecuperacion(t *testing.T) {
	cb, clock := newTestBreaker()

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(fail))
	}
	require.Equal(t, CBOpen, cb.State())

	*clock = clock.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	// two successful probes close the breaker
	require.NoError(t, cb.Execute(ok))
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_PruebaFallidaVuelveAAbrir(t *testing.T) {
	cb, clock := newTestBreaker()

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(fail))
	}
	*clock = clock.Add(time.Minute)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(fail))
	assert.Equal(t, CBOpen, cb.State())

	// and it needs a fresh timeout before probing again
	*clock = clock.Add(30 * time.Second)
	assert.Equal(t, CBOpen, cb.State())
	*clock = clock.Add(30 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())
}
