package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	businessdomain "github.com/tair/retail-settlement/internal/business/domain"
	catalogdomain "github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/internal/sale/document"
	"github.com/tair/retail-settlement/internal/sale/domain"
	"github.com/tair/retail-settlement/internal/sale/usecase/command"
	"github.com/tair/retail-settlement/internal/sale/usecase/query"
	stockdomain "github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
	"github.com/tair/retail-settlement/pkg/logger"
)

// SaleHandler handles HTTP requests for settlements
type SaleHandler struct {
	// Command handlers
	commitHandler       *command.CommitSaleHandler
	deleteHandler       *command.DeleteReceiptHandler
	createMethodHandler *command.CreatePaymentMethodHandler

	// Query handlers
	getReceiptHandler   *query.GetReceiptHandler
	listReceiptsHandler *query.ListReceiptsHandler
	listMethodsHandler  *query.ListPaymentMethodsHandler

	settlementCounter *prometheus.CounterVec
	settlementLatency prometheus.Histogram
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(
	receipts domain.ReceiptRepository,
	methods domain.PaymentMethodRepository,
	businesses businessdomain.BusinessRepository,
	locations command.LocationFinder,
	products catalogdomain.ProductRepository,
	variants catalogdomain.VariantRepository,
	stock stockdomain.StockRepository,
	recomputer domain.ActivationRecomputer,
	publisher *kafka.Publisher,
	documents document.Builder,
) *SaleHandler {
	settlementCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sale_settlements_total",
			Help: "Total number of settlement attempts by outcome",
		},
		[]string{"outcome"},
	)

	settlementLatency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sale_settlement_duration_seconds",
			Help:    "Duration of settlement requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	prometheus.MustRegister(settlementCounter)
	prometheus.MustRegister(settlementLatency)

	return &SaleHandler{
		commitHandler:       command.NewCommitSaleHandler(receipts, methods, businesses, locations, products, variants, stock, recomputer, publisher, documents),
		deleteHandler:       command.NewDeleteReceiptHandler(receipts),
		createMethodHandler: command.NewCreatePaymentMethodHandler(methods),
		getReceiptHandler:   query.NewGetReceiptHandler(receipts),
		listReceiptsHandler: query.NewListReceiptsHandler(receipts),
		listMethodsHandler:  query.NewListPaymentMethodsHandler(methods),
		settlementCounter:   settlementCounter,
		settlementLatency:   settlementLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type commitLineRequest struct {
	VariantID       uint   `json:"variant_id"`
	LocationID      uint   `json:"location_id"`
	Quantity        int    `json:"quantity"`
	DiscountPercent string `json:"discount_percent"`
	DiscountAmount  string `json:"discount_amount"`
}

type commitRequest struct {
	BusinessID      uint                `json:"business_id"`
	PaymentMethodID uint                `json:"payment_method_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	IsOnline        bool                `json:"is_online"`
	DiscountPercent string              `json:"discount_percent"`
	DiscountAmount  string              `json:"discount_amount"`
	Lines           []commitLineRequest `json:"lines"`
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// CommitSale handles POST /api/sales
func (h *SaleHandler) CommitSale(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.settlementLatency.Observe(time.Since(start).Seconds())
	}()

	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.settlementCounter.WithLabelValues("rejected").Inc()
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.CommitSaleCommand{
		BusinessID:      req.BusinessID,
		PaymentMethodID: req.PaymentMethodID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		IsOnline:        req.IsOnline,
	}

	var err error
	if cmd.DiscountPercent, err = parseDecimal(req.DiscountPercent); err != nil {
		h.settlementCounter.WithLabelValues("rejected").Inc()
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid discount_percent"})
		return
	}
	if cmd.DiscountAmount, err = parseDecimal(req.DiscountAmount); err != nil {
		h.settlementCounter.WithLabelValues("rejected").Inc()
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid discount_amount"})
		return
	}

	for _, line := range req.Lines {
		parsed := command.CommitSaleLine{
			VariantID:  line.VariantID,
			LocationID: line.LocationID,
			Quantity:   line.Quantity,
		}
		if parsed.DiscountPercent, err = parseDecimal(line.DiscountPercent); err != nil {
			h.settlementCounter.WithLabelValues("rejected").Inc()
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid line discount_percent"})
			return
		}
		if parsed.DiscountAmount, err = parseDecimal(line.DiscountAmount); err != nil {
			h.settlementCounter.WithLabelValues("rejected").Inc()
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid line discount_amount"})
			return
		}
		cmd.Lines = append(cmd.Lines, parsed)
	}

	receipt, err := h.commitHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.settlementCounter.WithLabelValues("failed").Inc()
		h.respondCommitError(w, r, err)
		return
	}

	h.settlementCounter.WithLabelValues("committed").Inc()
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Sale committed successfully",
		Data:    receipt,
	})
}

func (h *SaleHandler) respondCommitError(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *stockdomain.InsufficientStockError
	var crossBusiness *domain.CrossBusinessError

	status := http.StatusBadRequest
	switch {
	case errors.As(err, &insufficient):
		status = http.StatusConflict
	case errors.As(err, &crossBusiness):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPaymentMethodNotFound),
		errors.Is(err, catalogdomain.ErrVariantNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrReceiptNumberCollision):
		status = http.StatusInternalServerError
	}

	logger.Error(r.Context()).Err(err).Msg("Failed to commit sale")
	respondJSON(w, status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

// GetReceipt handles GET /api/sales/receipts/{id}
func (h *SaleHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid receipt ID",
		})
		return
	}

	receipt, err := h.getReceiptHandler.Handle(query.GetReceiptQuery{ReceiptID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Receipt not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    receipt,
	})
}

// GetReceiptByNumber handles GET /api/sales/receipts/number/{number}
func (h *SaleHandler) GetReceiptByNumber(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	receipt, err := h.getReceiptHandler.Handle(query.GetReceiptQuery{Number: vars["number"]})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Receipt not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    receipt,
	})
}

// parseDate accepts a date or a full RFC 3339 timestamp
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListReceipts handles GET /api/sales/receipts
func (h *SaleHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	businessID, _ := strconv.ParseUint(r.URL.Query().Get("business_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid from date"})
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid to date"})
		return
	}

	receipts, err := h.listReceiptsHandler.Handle(query.ListReceiptsQuery{
		BusinessID: uint(businessID),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list receipts")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list receipts",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    receipts,
	})
}

// DeleteReceipt handles DELETE /api/sales/receipts/{id}
func (h *SaleHandler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid receipt ID",
		})
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteReceiptCommand{ReceiptID: uint(id)}); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrReceiptNotFound) {
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
		Message: "Receipt deleted successfully",
	})
}

// CreatePaymentMethod handles POST /api/sales/payment-methods
func (h *SaleHandler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	method, err := h.createMethodHandler.Handle(command.CreatePaymentMethodCommand{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Payment method created successfully",
		Data:    method,
	})
}

// ListPaymentMethods handles GET /api/sales/payment-methods
func (h *SaleHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	methods, err := h.listMethodsHandler.Handle(query.ListPaymentMethodsQuery{ActiveOnly: activeOnly})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list payment methods")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list payment methods",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    methods,
	})
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sales", h.CommitSale).Methods("POST")
	router.HandleFunc("/api/sales/receipts", h.ListReceipts).Methods("GET")
	router.HandleFunc("/api/sales/receipts/number/{number}", h.GetReceiptByNumber).Methods("GET")
	router.HandleFunc("/api/sales/receipts/{id}", h.GetReceipt).Methods("GET")
	router.HandleFunc("/api/sales/receipts/{id}", h.DeleteReceipt).Methods("DELETE")
	router.HandleFunc("/api/sales/payment-methods", h.ListPaymentMethods).Methods("GET")
	router.HandleFunc("/api/sales/payment-methods", h.CreatePaymentMethod).Methods("POST")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
