package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig describes one upstream service behind the gateway
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig reads the gateway configuration from the environment.
// The settlement service can run as several instances; list them
// comma-separated in SETTLEMENT_SERVICE_URLS.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"settlement": {
				Name:        "settlement-service",
				Instances:   splitURLs(getEnv("SETTLEMENT_SERVICE_URLS", "http://localhost:8080")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func splitURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, strings.TrimSuffix(trimmed, "/"))
		}
	}
	return urls
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
