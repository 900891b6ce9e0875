package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tair/retail-settlement/api-gateway/config"
	"github.com/tair/retail-settlement/pkg/logger"
)

// InstanceHealth is the probe result for one upstream instance
type InstanceHealth struct {
	Service   string        `json:"service"`
	URL       string        `json:"url"`
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// GatewayHealth aggregates instance probes into an overall verdict
type GatewayHealth struct {
	Gateway   string           `json:"gateway"`
	Status    string           `json:"status"`
	Instances []InstanceHealth `json:"instances"`
	Uptime    float64          `json:"uptime_seconds"`
}

// HealthChecker probes every instance of every upstream service
type HealthChecker struct {
	config    *config.GatewayConfig
	client    *http.Client
	startTime time.Time
}

func NewHealthChecker(cfg *config.GatewayConfig) *HealthChecker {
	return &HealthChecker{
		config: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		startTime: time.Now(),
	}
}

// CheckInstance probes a single upstream instance
func (h *HealthChecker) CheckInstance(ctx context.Context, service, baseURL, healthPath string) InstanceHealth {
	start := time.Now()
	result := InstanceHealth{
		Service:   service,
		URL:       baseURL,
		Timestamp: start,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+healthPath, nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = err.Error()
		result.Latency = time.Since(start)
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = err.Error()
		result.Latency = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)
	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("unexpected status code %d", resp.StatusCode)
	}
	return result
}

// CheckAll probes every instance concurrently
func (h *HealthChecker) CheckAll(ctx context.Context) GatewayHealth {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		instances []InstanceHealth
	)

	for name, svc := range h.config.Services {
		for _, instance := range svc.Instances {
			wg.Add(1)
			go func(service, url, healthPath string) {
				defer wg.Done()
				probe := h.CheckInstance(ctx, service, url, healthPath)

				mu.Lock()
				instances = append(instances, probe)
				mu.Unlock()

				if probe.Status != "healthy" {
					logger.Logger.Warn().
						Str("service", service).
						Str("url", url).
						Str("error", probe.Error).
						Msg("Upstream health probe failed")
				}
			}(name, instance, svc.HealthCheck)
		}
	}
	wg.Wait()

	return GatewayHealth{
		Gateway:   "api-gateway",
		Status:    overallStatus(instances),
		Instances: instances,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
}

// QuickCheck reports on the gateway itself without touching upstreams
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"gateway":   "api-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}

func overallStatus(instances []InstanceHealth) string {
	healthy := 0
	for _, probe := range instances {
		if probe.Status == "healthy" {
			healthy++
		}
	}

	switch {
	case len(instances) == 0 || healthy == len(instances):
		return "healthy"
	case healthy > 0:
		return "degraded"
	default:
		return "unhealthy"
	}
}
