package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tair/retail-settlement/api-gateway/config"
	"github.com/tair/retail-settlement/api-gateway/health"
	"github.com/tair/retail-settlement/api-gateway/middleware"
	"github.com/tair/retail-settlement/api-gateway/proxy"
)

// RouteDefinition maps a path prefix to an upstream service
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool
	RequireAdmin bool
	Cacheable    bool
}

// Routes is the gateway routing table
var Routes = []RouteDefinition{
	{
		Prefix:       "/api/businesses",
		ServiceName:  "settlement",
		Description:  "Business and location management",
		RequireAuth:  true,
		RequireAdmin: true,
	},
	{
		Prefix:      "/api/catalog",
		ServiceName: "settlement",
		Description: "Products and variants",
		RequireAuth: true,
		Cacheable:   true,
	},
	{
		Prefix:      "/api/stock",
		ServiceName: "settlement",
		Description: "Stock levels, reservations and defects",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/sales",
		ServiceName: "settlement",
		Description: "Receipt settlement and payment methods",
		RequireAuth: true,
	},
}

// SetupRoutes wires the routing table, health probes and the root overview
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, cbManager *middleware.CircuitBreakerManager, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		status := healthChecker.CheckAll(ctx)
		code := fiber.StatusOK
		if status.Status == "unhealthy" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(status)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Retail Settlement Gateway",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerRoute(app, route, reverseProxy, cbManager, redisClient)
	}
}

func registerRoute(app *fiber.App, route RouteDefinition, reverseProxy *proxy.ReverseProxy, cbManager *middleware.CircuitBreakerManager, redisClient *redis.Client) {
	handler := func(c *fiber.Ctx) error {
		return reverseProxy.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}
	if route.RequireAdmin {
		middlewares = append(middlewares, middleware.AdminMiddleware())
	}
	if route.Cacheable && redisClient != nil {
		middlewares = append(middlewares, middleware.CacheMiddleware(redisClient, middleware.DefaultCacheConfig()))
	}
	middlewares = append(middlewares, middleware.CircuitBreakerMiddleware(cbManager, route.ServiceName))

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)
	app.All(route.Prefix, append(middlewares, handler)...)
}
