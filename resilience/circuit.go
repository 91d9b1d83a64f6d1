package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all calls.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the downstream
	// dependency recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
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

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the protected resource in snapshots and logs.
	Name string

	// FailureThreshold is the number of consecutive failures before the
	// circuit opens.
	// Default: 5
	FailureThreshold int

	// Cooldown is how long the circuit stays open before probing recovery.
	// Default: 60 seconds
	Cooldown time.Duration

	// HalfOpenTrials is the number of probe calls admitted while half-open.
	// That many consecutive successes close the circuit; a single failure
	// reopens it.
	// Default: 3
	HalfOpenTrials int

	// IsFailure determines if an error counts as a downstream failure.
	// Default: all non-nil errors except ErrCircuitOpen.
	IsFailure func(err error) bool

	// OnStateChange is called after every state transition.
	OnStateChange func(from, to State)

	// Logger records state transitions. Default: no-op.
	Logger *zap.Logger
}

// CircuitBreaker implements the circuit breaker pattern with a
// consecutive-failure threshold. One instance protects one downstream
// resource and is shared by all callers of that resource.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	log    *zap.Logger

	mu                sync.Mutex
	state             State
	failures          int
	lastFailure       time.Time
	halfOpenAdmitted  int
	halfOpenSuccesses int
}

// Snapshot is a read-only view of a breaker for observability.
type Snapshot struct {
	Name                string
	State               State
	ConsecutiveFailures int
	LastFailure         time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 60 * time.Second
	}
	if config.HalfOpenTrials <= 0 {
		config.HalfOpenTrials = 3
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool {
			return err != nil && !errors.Is(err, ErrCircuitOpen)
		}
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &CircuitBreaker{
		config: config,
		log:    log,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker. When the circuit
// is open, ErrCircuitOpen is returned and the operation is never invoked;
// that rejection does not count as a downstream failure. Otherwise the
// operation's own error is recorded and passed through unmodified.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterCall(err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Snapshot returns a read-only view of the breaker.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Snapshot{
		Name:                cb.config.Name,
		State:               cb.currentStateLocked(),
		ConsecutiveFailures: cb.failures,
		LastFailure:         cb.lastFailure,
	}
}

// Reset returns the breaker to the closed state with all counters cleared.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	from := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.halfOpenAdmitted = 0
	cb.halfOpenSuccesses = 0
	cb.lastFailure = time.Time{}

	if from != StateClosed {
		cb.notifyLocked(from, StateClosed)
	}
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenAdmitted >= cb.config.HalfOpenTrials {
			return ErrCircuitOpen
		}
		cb.halfOpenAdmitted++
	}

	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failure := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		if failure {
			cb.failures++
			cb.lastFailure = time.Now()
			if cb.failures >= cb.config.FailureThreshold {
				cb.transitionLocked(StateOpen)
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		if failure {
			// Probe failed, back to open with failure counting restarted.
			cb.failures = 0
			cb.lastFailure = time.Now()
			cb.transitionLocked(StateOpen)
		} else {
			cb.halfOpenSuccesses++
			if cb.halfOpenSuccesses >= cb.config.HalfOpenTrials {
				cb.failures = 0
				cb.transitionLocked(StateClosed)
			}
		}
	}
}

// currentStateLocked resolves the time-based open to half-open transition
// before reporting the state.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.config.Cooldown {
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	if to == StateHalfOpen {
		cb.halfOpenAdmitted = 0
		cb.halfOpenSuccesses = 0
	}

	cb.notifyLocked(from, to)
}

func (cb *CircuitBreaker) notifyLocked(from, to State) {
	cb.log.Info("circuit breaker state change",
		zap.String("name", cb.config.Name),
		zap.Stringer("from", from),
		zap.Stringer("to", to))

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
