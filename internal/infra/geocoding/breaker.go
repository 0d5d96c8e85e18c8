package geocoding

import (
	"errors"
	"sync"
	"time"
)

// BreakerState follows closed → open → half-open → closed.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("geocoding: circuit breaker is open")

type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that trip the breaker
	SuccessThreshold int           // half-open successes needed to close again
	OpenTimeout      time.Duration // time spent open before probing
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		OpenTimeout:      30 * time.Second,
	}
}

type Breaker struct {
	mu sync.Mutex

	state        BreakerState
	failures     int
	successes    int
	lastFailure  time.Time
	failureLimit int
	successLimit int
	openTimeout  time.Duration

	now func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	def := DefaultBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}

	return &Breaker{
		state:        StateClosed,
		failureLimit: cfg.FailureThreshold,
		successLimit: cfg.SuccessThreshold,
		openTimeout:  cfg.OpenTimeout,
		now:          time.Now,
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// currentState must be called with mu held.
func (b *Breaker) currentState() BreakerState {
	if b.state == StateOpen && b.now().Sub(b.lastFailure) >= b.openTimeout {
		b.state = StateHalfOpen
		b.successes = 0
	}
	return b.state
}

// Execute runs fn unless the breaker is open. Errors for which counts
// returns false pass through without affecting the breaker.
func (b *Breaker) Execute(fn func() error, counts func(error) bool) error {
	b.mu.Lock()
	state := b.currentState()
	b.mu.Unlock()

	if state == StateOpen {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && (counts == nil || counts(err)) {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return err
}

func (b *Breaker) onFailure() {
	b.failures++
	b.lastFailure = b.now()

	switch b.state {
	case StateClosed:
		if b.failures >= b.failureLimit {
			b.state = StateOpen
			b.successes = 0
		}
	case StateHalfOpen:
		b.state = StateOpen
		b.failures = 0
	}
}

func (b *Breaker) onSuccess() {
	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.successLimit {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
		}
	}
}
