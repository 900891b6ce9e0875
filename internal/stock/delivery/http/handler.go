package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/internal/stock/usecase/command"
	"github.com/tair/retail-settlement/internal/stock/usecase/query"
	"github.com/tair/retail-settlement/kafka"
	"github.com/tair/retail-settlement/pkg/logger"
)

// StockHandler handles HTTP requests for stock
type StockHandler struct {
	// Command handlers
	createHandler  *command.CreateStockHandler
	adjustHandler  *command.AdjustQuantityHandler
	reserveHandler *command.ReserveStockHandler
	releaseHandler *command.ReleaseReservationHandler
	defectHandler  *command.RecordDefectHandler
	removeHandler  *command.RemoveDefectHandler

	// Query handlers
	getHandler          *query.GetStockHandler
	availabilityHandler *query.GetAvailabilityHandler
	listHandler         *query.ListStockHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewStockHandler creates a new stock handler
func NewStockHandler(repo domain.StockRepository, notifier domain.ActivationNotifier, publisher *kafka.Publisher) *StockHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_requests_total",
			Help: "Total number of requests to stock endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_service_request_duration_seconds",
			Help:    "Duration of stock requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &StockHandler{
		createHandler:       command.NewCreateStockHandler(repo),
		adjustHandler:       command.NewAdjustQuantityHandler(repo, notifier, publisher),
		reserveHandler:      command.NewReserveStockHandler(repo, notifier, publisher),
		releaseHandler:      command.NewReleaseReservationHandler(repo, notifier, publisher),
		defectHandler:       command.NewRecordDefectHandler(repo, notifier, publisher),
		removeHandler:       command.NewRemoveDefectHandler(repo, notifier, publisher),
		getHandler:          query.NewGetStockHandler(repo),
		availabilityHandler: query.NewGetAvailabilityHandler(repo),
		listHandler:         query.NewListStockHandler(repo),
		requestCounter:      requestCounter,
		requestLatency:      requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *StockHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CreateStock handles POST /api/stock
func (h *StockHandler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID  uint `json:"variant_id"`
		LocationID uint `json:"location_id"`
		Quantity   int  `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	stock, err := h.createHandler.Handle(command.CreateStockCommand{
		VariantID:  req.VariantID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create stock")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Stock created successfully",
		Data:    stock,
	})
}

// GetStock handles GET /api/stock/{id}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid stock ID",
		})
		return
	}

	stock, err := h.getHandler.Handle(query.GetStockQuery{StockID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Stock not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stock,
	})
}

// GetAvailability handles GET /api/stock/availability?variant_id=&location_id=
func (h *StockHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	variantID, _ := strconv.ParseUint(r.URL.Query().Get("variant_id"), 10, 32)
	locationID, _ := strconv.ParseUint(r.URL.Query().Get("location_id"), 10, 32)

	availability, err := h.availabilityHandler.Handle(query.GetAvailabilityQuery{
		VariantID:  uint(variantID),
		LocationID: uint(locationID),
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrNoStockRecord) {
			status = http.StatusNotFound
		}
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    availability,
	})
}

// ListStock handles GET /api/stock?location_id= or ?variant_id=
func (h *StockHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	locationID, _ := strconv.ParseUint(r.URL.Query().Get("location_id"), 10, 32)
	variantID, _ := strconv.ParseUint(r.URL.Query().Get("variant_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	var (
		stocks []domain.Stock
		err    error
	)

	switch {
	case locationID != 0:
		stocks, err = h.listHandler.HandleByLocation(query.ListStockByLocationQuery{
			LocationID: uint(locationID),
			Limit:      limit,
			Offset:     offset,
		})
	case variantID != 0:
		stocks, err = h.listHandler.HandleByVariant(query.ListStockByVariantQuery{VariantID: uint(variantID)})
	default:
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "location_id or variant_id is required",
		})
		return
	}

	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list stock")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list stock",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stocks,
	})
}

// AdjustQuantity handles PATCH /api/stock/{id}/quantity
func (h *StockHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid stock ID",
		})
		return
	}

	var req struct {
		Delta  int    `json:"delta"`
		Reason string `json:"reason"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	stock, err := h.adjustHandler.Handle(r.Context(), command.AdjustQuantityCommand{
		StockID: uint(id),
		Delta:   req.Delta,
		Reason:  req.Reason,
	})
	if err != nil {
		respondStockError(w, r, err, "Failed to adjust quantity")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Quantity adjusted successfully",
		Data:    stock,
	})
}

// ReserveStock handles POST /api/stock/reserve
func (h *StockHandler) ReserveStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID  uint `json:"variant_id"`
		LocationID uint `json:"location_id"`
		Quantity   int  `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	stock, err := h.reserveHandler.Handle(r.Context(), command.ReserveStockCommand{
		VariantID:  req.VariantID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		respondStockError(w, r, err, "Failed to reserve stock")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock reserved successfully",
		Data:    stock,
	})
}

// ReleaseReservation handles POST /api/stock/release
func (h *StockHandler) ReleaseReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID  uint `json:"variant_id"`
		LocationID uint `json:"location_id"`
		Quantity   int  `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	stock, err := h.releaseHandler.Handle(r.Context(), command.ReleaseReservationCommand{
		VariantID:  req.VariantID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		respondStockError(w, r, err, "Failed to release reservation")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Reservation released successfully",
		Data:    stock,
	})
}

// RecordDefect handles POST /api/stock/{id}/defects
func (h *StockHandler) RecordDefect(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid stock ID",
		})
		return
	}

	var req struct {
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	defect, err := h.defectHandler.Handle(r.Context(), command.RecordDefectCommand{
		StockID:  uint(id),
		Quantity: req.Quantity,
		Reason:   req.Reason,
	})
	if err != nil {
		respondStockError(w, r, err, "Failed to record defect")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Defect recorded successfully",
		Data:    defect,
	})
}

// RemoveDefect handles DELETE /api/stock/defects/{defect_id}
func (h *StockHandler) RemoveDefect(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	defectID, err := strconv.ParseUint(vars["defect_id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid defect ID",
		})
		return
	}

	if err := h.removeHandler.Handle(r.Context(), command.RemoveDefectCommand{DefectID: uint(defectID)}); err != nil {
		respondStockError(w, r, err, "Failed to remove defect")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Defect removed successfully",
	})
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/stock", h.metricsMiddleware("/api/stock", h.ListStock)).Methods("GET")
	router.HandleFunc("/api/stock", h.metricsMiddleware("/api/stock", h.CreateStock)).Methods("POST")
	router.HandleFunc("/api/stock/availability", h.metricsMiddleware("/api/stock/availability", h.GetAvailability)).Methods("GET")
	router.HandleFunc("/api/stock/reserve", h.metricsMiddleware("/api/stock/reserve", h.ReserveStock)).Methods("POST")
	router.HandleFunc("/api/stock/release", h.metricsMiddleware("/api/stock/release", h.ReleaseReservation)).Methods("POST")
	router.HandleFunc("/api/stock/defects/{defect_id}", h.metricsMiddleware("/api/stock/defects", h.RemoveDefect)).Methods("DELETE")
	router.HandleFunc("/api/stock/{id}", h.metricsMiddleware("/api/stock/{id}", h.GetStock)).Methods("GET")
	router.HandleFunc("/api/stock/{id}/quantity", h.metricsMiddleware("/api/stock/{id}/quantity", h.AdjustQuantity)).Methods("PATCH")
	router.HandleFunc("/api/stock/{id}/defects", h.metricsMiddleware("/api/stock/{id}/defects", h.RecordDefect)).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *StockHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Stock service is healthy",
		})
	}).Methods("GET")
}

// respondStockError maps domain errors to HTTP status codes
func respondStockError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var insufficient *domain.InsufficientStockError
	var defectExceeds *domain.DefectExceedsAvailableError

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrNoStockRecord):
		status = http.StatusNotFound
	case errors.As(err, &insufficient), errors.As(err, &defectExceeds):
		status = http.StatusConflict
	}

	logger.Error(r.Context()).Err(err).Msg(msg)
	respondJSON(w, status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
