package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/business"
	businessdomain "github.com/tair/retail-settlement/internal/business/domain"
	"github.com/tair/retail-settlement/internal/catalog"
	catalogdomain "github.com/tair/retail-settlement/internal/catalog/domain"
	catalogrepo "github.com/tair/retail-settlement/internal/catalog/repository"
	"github.com/tair/retail-settlement/internal/sale"
	"github.com/tair/retail-settlement/internal/sale/document"
	saledomain "github.com/tair/retail-settlement/internal/sale/domain"
	salerepo "github.com/tair/retail-settlement/internal/sale/repository"
	"github.com/tair/retail-settlement/internal/stock"
	stockdomain "github.com/tair/retail-settlement/internal/stock/domain"
	stockrepo "github.com/tair/retail-settlement/internal/stock/repository"
	"github.com/tair/retail-settlement/kafka"
	"github.com/tair/retail-settlement/pkg/database"
	"github.com/tair/retail-settlement/pkg/logger"
	"github.com/tair/retail-settlement/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "settlement-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting settlement service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "retaildb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database. All services share one connection so a sale
	// settlement is a single database transaction.
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&businessdomain.Business{},
		&businessdomain.Location{},
		&catalogdomain.Product{},
		&catalogdomain.Variant{},
		&stockdomain.Stock{},
		&stockdomain.Defect{},
		&saledomain.Receipt{},
		&saledomain.Sale{},
		&saledomain.PaymentMethod{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	seedPaymentMethods(db)

	// Kafka publisher is optional; without brokers the service runs but
	// settlement events stay local.
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect to Kafka, continuing without events")
			publisher = nil
		} else {
			defer publisher.Close()
			logger.Logger.Info().Str("brokers", brokers).Msg("Kafka publisher initialized")
		}
	}

	// Receipt documents are written locally; the directory doubles as the
	// handoff point for any downstream delivery mechanism.
	documentDir := getEnv("DOCUMENT_DIR", "./receipts")
	renderer, err := document.NewHTMLRenderer(documentDir)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize document renderer")
	}

	// Shared repositories for cross-service collaborators
	stockRepo := stockrepo.NewGormStockRepository(db)
	productRepo := catalogrepo.NewGormProductRepository(db)
	variantRepo := catalogrepo.NewGormVariantRepository(db)

	// Initialize handlers with Wire DI
	businessHandler, err := business.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize business handler")
	}

	catalogHandler, err := catalog.InitializeHTTPHandler(db, stockRepo)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize catalog handler")
	}

	// The catalog's recompute handler doubles as the stock and sale
	// activation notifier.
	recomputer := catalogHandler.RecomputeHandler()

	stockHandler, err := stock.InitializeHTTPHandler(db, recomputer, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize stock handler")
	}

	saleHandler, err := sale.InitializeHTTPHandler(
		db,
		business.ProvideBusinessRepository(db),
		business.ProvideLocationRepository(db),
		productRepo,
		variantRepo,
		stockRepo,
		recomputer,
		publisher,
		renderer,
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize sale handler")
	}

	// Setup router
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	businessHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)
	stockHandler.RegisterRoutes(router)
	saleHandler.RegisterRoutes(router)

	// Health check endpoint
	stockHandler.RegisterHealthCheck(router, sqlDB)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
}

// seedPaymentMethods registers the default tenders on an empty database
func seedPaymentMethods(db *gorm.DB) {
	repo := salerepo.NewGormPaymentMethodRepository(db)
	existing, err := repo.FindAll(false)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to inspect payment methods")
		return
	}
	if len(existing) > 0 {
		return
	}
	for _, method := range []saledomain.PaymentMethod{
		{Code: "cash", Name: "Cash", IsActive: true},
		{Code: "card", Name: "Card", IsActive: true},
	} {
		if err := repo.Create(&method); err != nil {
			logger.Logger.Error().Err(err).Str("code", method.Code).Msg("Failed to seed payment method")
		}
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Info(r.Context()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
