package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker around the SMTP relay. A dead mail server must not stall
// the alert workers: once the breaker trips, queued alert jobs fast-fail
// into the DLQ instead of blocking on connection timeouts.

// CBState is the breaker position.
type CBState int

const (
	CBClosed   CBState = iota // requests flow
	CBOpen                    // fast-fail everything
	CBHalfOpen                // single probe allowed
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker abierto")

// CircuitBreakerConfig tunes the trip and recovery behavior. Zero values
// fall back to the defaults below.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures that trip the breaker
	SuccessThreshold int           // consecutive probe successes that close it again
	OpenTimeout      time.Duration // time in open before the first probe
}

func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	}
}

type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	state    CBState
	fails    int // consecutive failures while closed
	probes   int // consecutive successes while half-open
	openedAt time.Time

	// injectable clock for the transition tests
	now func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// State reports the breaker position, promoting open to half-open once the
// open timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.probes = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and feeds the outcome back
// into the state machine.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) recordFailure() {
	cb.openedAt = cb.now()
	if cb.state == CBHalfOpen {
		// failed probe, back to open for another full timeout
		cb.state = CBOpen
		cb.fails = 0
		return
	}
	cb.fails++
	if cb.fails >= cb.cfg.FailureThreshold {
		cb.state = CBOpen
		cb.probes = 0
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	if cb.state != CBHalfOpen {
		cb.fails = 0
		return
	}
	cb.probes++
	if cb.probes >= cb.cfg.SuccessThreshold {
		cb.state = CBClosed
		cb.fails = 0
		cb.probes = 0
	}
}
