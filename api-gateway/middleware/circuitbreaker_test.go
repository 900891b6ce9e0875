package middleware

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("settlement")

	for i := 0; i < failureThreshold-1; i++ {
		cb.RecordFailure()
	}
	if cb.State() != StateClosed {
		t.Fatalf("state = %s before threshold, want closed", cb.State())
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("state = %s after threshold, want open", cb.State())
	}
	if cb.Allow() {
		t.Error("open breaker should reject requests")
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("settlement")

	for i := 0; i < failureThreshold-1; i++ {
		cb.RecordFailure()
	}
	cb.RecordSuccess()
	cb.RecordFailure()

	if cb.State() != StateClosed {
		t.Errorf("state = %s, want closed after intervening success", cb.State())
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("settlement")
	for i := 0; i < failureThreshold; i++ {
		cb.RecordFailure()
	}

	// Age the open state past its timeout
	cb.mu.Lock()
	cb.lastStateChange = time.Now().Add(-openTimeout - time.Second)
	cb.mu.Unlock()

	if !cb.Allow() {
		t.Fatal("breaker should probe after the open timeout")
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %s, want half-open", cb.State())
	}

	for i := 0; i < halfOpenSuccesses; i++ {
		cb.RecordSuccess()
	}
	if cb.State() != StateClosed {
		t.Errorf("state = %s after probe successes, want closed", cb.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("settlement")
	for i := 0; i < failureThreshold; i++ {
		cb.RecordFailure()
	}

	cb.mu.Lock()
	cb.lastStateChange = time.Now().Add(-openTimeout - time.Second)
	cb.mu.Unlock()
	cb.Allow()

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Errorf("state = %s after half-open failure, want open", cb.State())
	}
}
