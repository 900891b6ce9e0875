package proxy

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/retail-settlement/api-gateway/config"
	"github.com/tair/retail-settlement/api-gateway/loadbalancer"
	"github.com/tair/retail-settlement/pkg/logger"
)

const maxRetries = 3

// ReverseProxy forwards gateway requests to the settlement service
type ReverseProxy struct {
	config    *config.GatewayConfig
	client    *http.Client
	balancers map[string]*loadbalancer.RoundRobin
}

func NewReverseProxy(cfg *config.GatewayConfig) *ReverseProxy {
	balancers := make(map[string]*loadbalancer.RoundRobin)
	for name, svc := range cfg.Services {
		balancers[name] = loadbalancer.NewRoundRobin(svc.Instances)
	}

	return &ReverseProxy{
		config:    cfg,
		balancers: balancers,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProxyRequest forwards the current request to an instance of serviceName.
// Safe methods are retried against the next instance on connection errors.
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx, serviceName string) error {
	lb, ok := p.balancers[serviceName]
	if !ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("Unknown upstream service '%s'", serviceName),
		})
	}

	attempts := 1
	if isSafeMethod(c.Method()) {
		attempts = maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		instance := lb.Next()
		if instance == "" {
			break
		}

		resp, err := p.forward(c, instance)
		if err != nil {
			lastErr = err
			logger.Logger.Warn().
				Err(err).
				Str("service", serviceName).
				Str("instance", instance).
				Int("attempt", attempt+1).
				Msg("Upstream request failed")
			time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
			continue
		}
		defer resp.Body.Close()

		return p.writeResponse(c, resp)
	}

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":   "Failed to reach settlement service",
		"service": serviceName,
		"details": errString(lastErr),
	})
}

func (p *ReverseProxy) forward(c *fiber.Ctx, instance string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		c.UserContext(),
		c.Method(),
		p.targetURL(c, instance),
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return nil, err
	}

	p.copyRequestHeaders(c, req)
	return p.client.Do(req)
}

func (p *ReverseProxy) writeResponse(c *fiber.Ctx, resp *http.Response) error {
	for key, values := range resp.Header {
		if strings.EqualFold(key, "content-length") {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}

	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to read upstream response",
		})
	}
	return c.Send(body)
}

func (p *ReverseProxy) targetURL(c *fiber.Ctx, instance string) string {
	path := string(c.Request().URI().Path())
	query := string(c.Request().URI().QueryString())
	if query != "" {
		query = "?" + query
	}
	return instance + path + query
}

func (p *ReverseProxy) copyRequestHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		if strings.EqualFold(string(key), "host") {
			return
		}
		req.Header.Set(string(key), string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func errString(err error) string {
	if err == nil {
		return "no instances available"
	}
	return err.Error()
}
