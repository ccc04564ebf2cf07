package infra

import (
	"errors"
	"sync"
	"time"
)

// The SMTP relay is the only remote the workers call synchronously. When it
// goes down, every email job would otherwise burn its full retry budget, so
// sends go through a breaker: Closed trips to Open after consecutive
// failures, Open cools down into Half-Open, and a successful probe send
// closes it again.

// CBState is the breaker state, exposed for the stock alert cron which
// skips its mail run entirely while the relay is down.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

var cbStateNames = map[CBState]string{
	CBClosed:   "closed",
	CBOpen:     "open",
	CBHalfOpen: "half-open",
}

func (s CBState) String() string {
	if name, ok := cbStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ErrCircuitOpen is returned while the breaker is fast-failing.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds the trip and recovery thresholds.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures that trip the breaker
	SuccessThreshold int           // probe successes needed to close again
	OpenTimeout      time.Duration // cool-down before the first probe
}

// SMTPBreakerConfig tunes the breaker for a mail relay: relays answer fast
// or not at all, so three straight failures are conclusive, one probe
// delivery proves recovery, and the two-minute cool-down stays outside
// typical greylisting windows.
func SMTPBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      2 * time.Minute,
	}
}

// CircuitBreaker serializes state transitions behind one mutex.
type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time // swapped in tests
}

// NewCircuitBreaker creates a closed breaker; zero config fields fall back
// to the SMTP defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := SMTPBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed, now: time.Now}
}

// State returns the current state, moving Open to Half-Open once the
// cool-down has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.successes = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and records the outcome.
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
	switch cb.state {
	case CBClosed:
		cb.failures++
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.trip()
		}
	case CBHalfOpen:
		// Probe failed; start a fresh cool-down.
		cb.trip()
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = CBOpen
	cb.openedAt = cb.now()
	cb.failures = 0
	cb.successes = 0
}

func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.failures = 0
			cb.successes = 0
		}
	}
}
