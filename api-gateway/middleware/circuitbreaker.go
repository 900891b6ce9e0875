package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/retail-settlement/pkg/logger"
)

// CircuitState is the current mode of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"

	failureThreshold  = 5
	openTimeout       = 30 * time.Second
	halfOpenSuccesses = 3
)

// CircuitBreaker trips after consecutive upstream failures and probes
// recovery through a half-open state
type CircuitBreaker struct {
	name            string
	state           CircuitState
	failures        int
	successes       int
	lastStateChange time.Time
	mu              sync.Mutex
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:            name,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Allow reports whether a request may pass through
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && time.Since(cb.lastStateChange) > openTimeout {
		cb.transition(StateHalfOpen)
	}

	return cb.state != StateOpen
}

// RecordSuccess feeds a successful upstream response into the breaker
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= halfOpenSuccesses {
			cb.transition(StateClosed)
		}
	case StateClosed:
		cb.failures = 0
	}
}

// RecordFailure feeds a failed upstream response into the breaker
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateHalfOpen:
		cb.transition(StateOpen)
	case StateClosed:
		cb.failures++
		if cb.failures >= failureThreshold {
			cb.transition(StateOpen)
		}
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// transition changes state; caller holds the lock
func (cb *CircuitBreaker) transition(next CircuitState) {
	if cb.state == next {
		return
	}

	event := logger.Logger.Info()
	if next == StateOpen {
		event = logger.Logger.Warn()
	}
	event.
		Str("circuit", cb.name).
		Str("from", string(cb.state)).
		Str("to", string(next)).
		Msg("Circuit breaker state change")

	cb.state = next
	cb.failures = 0
	cb.successes = 0
	cb.lastStateChange = time.Now()
}

// CircuitBreakerManager keeps one breaker per upstream service
type CircuitBreakerManager struct {
	breakers map[string]*CircuitBreaker
	mu       sync.Mutex
}

func NewCircuitBreakerManager() *CircuitBreakerManager {
	return &CircuitBreakerManager{breakers: make(map[string]*CircuitBreaker)}
}

// Get returns the breaker for a service, creating it on first use
func (m *CircuitBreakerManager) Get(service string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	cb, ok := m.breakers[service]
	if !ok {
		cb = NewCircuitBreaker(service)
		m.breakers[service] = cb
	}
	return cb
}

// CircuitBreakerMiddleware short-circuits requests to an upstream that keeps
// failing. Responses of 502/503/504 count as failures.
func CircuitBreakerMiddleware(manager *CircuitBreakerManager, service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cb := manager.Get(service)

		if !cb.Allow() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "Service temporarily unavailable",
				"service": service,
			})
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil || status == fiber.StatusBadGateway ||
			status == fiber.StatusServiceUnavailable ||
			status == fiber.StatusGatewayTimeout {
			cb.RecordFailure()
		} else {
			cb.RecordSuccess()
		}

		return err
	}
}
