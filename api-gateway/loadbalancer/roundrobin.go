package loadbalancer

import (
	"sync"

	"github.com/tair/retail-settlement/pkg/logger"
)

// RoundRobin hands out upstream instances in rotation
type RoundRobin struct {
	instances []string
	next      int
	mu        sync.Mutex
}

func NewRoundRobin(instances []string) *RoundRobin {
	if len(instances) == 0 {
		instances = []string{"http://localhost:8080"}
	}

	logger.Logger.Info().
		Strs("instances", instances).
		Msg("Round-robin balancer initialized")

	return &RoundRobin{instances: instances}
}

// Next returns the next instance in rotation, or "" when the pool is empty
func (rr *RoundRobin) Next() string {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if len(rr.instances) == 0 {
		return ""
	}

	instance := rr.instances[rr.next]
	rr.next = (rr.next + 1) % len(rr.instances)
	return instance
}

// Instances returns a copy of the current pool
func (rr *RoundRobin) Instances() []string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return append([]string{}, rr.instances...)
}
