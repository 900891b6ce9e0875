package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/internal/catalog/usecase/command"
	"github.com/tair/retail-settlement/internal/catalog/usecase/query"
	"github.com/tair/retail-settlement/pkg/logger"
)

// CatalogHandler handles HTTP requests for products and variants
type CatalogHandler struct {
	// Command handlers
	createProductHandler *command.CreateProductHandler
	createVariantHandler *command.CreateVariantHandler
	updateVariantHandler *command.UpdateVariantHandler
	deleteVariantHandler *command.DeleteVariantHandler
	toggleActiveHandler  *command.ToggleActiveHandler
	recomputeHandler     *command.RecomputeActivationHandler

	// Query handlers
	getProductHandler   *query.GetProductHandler
	listProductsHandler *query.ListProductsHandler
	findVariantHandler  *query.FindVariantHandler

	products       domain.ProductRepository
	activeProducts prometheus.Gauge
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(products domain.ProductRepository, variants domain.VariantRepository, stock domain.StockReader) *CatalogHandler {
	recomputeHandler := command.NewRecomputeActivationHandler(products, variants, stock)

	activeProducts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_active_products",
		Help: "Number of products currently flagged purchasable",
	})
	prometheus.MustRegister(activeProducts)

	return &CatalogHandler{
		createProductHandler: command.NewCreateProductHandler(products),
		createVariantHandler: command.NewCreateVariantHandler(products, variants, recomputeHandler),
		updateVariantHandler: command.NewUpdateVariantHandler(variants, recomputeHandler),
		deleteVariantHandler: command.NewDeleteVariantHandler(variants, recomputeHandler),
		toggleActiveHandler:  command.NewToggleActiveHandler(products),
		recomputeHandler:     recomputeHandler,
		getProductHandler:    query.NewGetProductHandler(products),
		listProductsHandler:  query.NewListProductsHandler(products),
		findVariantHandler:   query.NewFindVariantHandler(variants),
		products:             products,
		activeProducts:       activeProducts,
	}
}

// RecomputeHandler exposes the activation recompute for cross-package wiring
func (h *CatalogHandler) RecomputeHandler() *command.RecomputeActivationHandler {
	return h.recomputeHandler
}

// refreshActiveProducts updates the gauge after a mutation that can flip
// activation state
func (h *CatalogHandler) refreshActiveProducts(r *http.Request) {
	count, err := h.products.CountActive()
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Failed to count active products")
		return
	}
	h.activeProducts.Set(float64(count))
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateProduct handles POST /api/catalog/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID  uint   `json:"business_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.createProductHandler.Handle(command.CreateProductCommand{
		BusinessID:  req.BusinessID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// GetProduct handles GET /api/catalog/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	product, err := h.getProductHandler.Handle(query.GetProductQuery{ProductID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// ListProducts handles GET /api/catalog/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	businessID, _ := strconv.ParseUint(r.URL.Query().Get("business_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.listProductsHandler.Handle(query.ListProductsQuery{
		BusinessID: uint(businessID),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// ToggleActive handles PATCH /api/catalog/products/{id}/active
func (h *CatalogHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.toggleActiveHandler.Handle(command.ToggleActiveCommand{
		ProductID: uint(id),
		IsActive:  req.IsActive,
	}); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.refreshActiveProducts(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product activation updated",
	})
}

// RecomputeActivation handles POST /api/catalog/products/{id}/recompute
func (h *CatalogHandler) RecomputeActivation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return
	}

	active, err := h.recomputeHandler.Handle(command.RecomputeActivationCommand{ProductID: uint(id)})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to recompute product activation")
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.refreshActiveProducts(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product activation recomputed",
		Data:    map[string]bool{"is_active": active},
	})
}

type variantRequest struct {
	ProductID       uint   `json:"product_id"`
	SKU             string `json:"sku"`
	Barcode         string `json:"barcode"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	DiscountPercent string `json:"discount_percent"`
	DiscountAmount  string `json:"discount_amount"`
	ShowThis        *bool  `json:"show_this"`
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// CreateVariant handles POST /api/catalog/variants
func (h *CatalogHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req variantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	price, err := parseDecimal(req.Price)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid price",
		})
		return
	}

	percent, err := parseDecimal(req.DiscountPercent)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid discount_percent",
		})
		return
	}

	amount, err := parseDecimal(req.DiscountAmount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid discount_amount",
		})
		return
	}

	showThis := true
	if req.ShowThis != nil {
		showThis = *req.ShowThis
	}

	variant, err := h.createVariantHandler.Handle(command.CreateVariantCommand{
		ProductID:       req.ProductID,
		SKU:             req.SKU,
		Barcode:         req.Barcode,
		Name:            req.Name,
		Price:           price,
		DiscountPercent: percent,
		DiscountAmount:  amount,
		ShowThis:        showThis,
	})
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrDuplicateSKU):
			status = http.StatusConflict
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to create variant")
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.refreshActiveProducts(r)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Variant created successfully",
		Data:    variant,
	})
}

// UpdateVariant handles PUT /api/catalog/variants/{id}
func (h *CatalogHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid variant ID",
		})
		return
	}

	var req struct {
		Name            *string `json:"name"`
		Barcode         *string `json:"barcode"`
		Price           *string `json:"price"`
		DiscountPercent *string `json:"discount_percent"`
		DiscountAmount  *string `json:"discount_amount"`
		ShowThis        *bool   `json:"show_this"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.UpdateVariantCommand{
		VariantID: uint(id),
		Name:      req.Name,
		Barcode:   req.Barcode,
		ShowThis:  req.ShowThis,
	}

	for _, field := range []struct {
		raw  *string
		dest **decimal.Decimal
		name string
	}{
		{req.Price, &cmd.Price, "price"},
		{req.DiscountPercent, &cmd.DiscountPercent, "discount_percent"},
		{req.DiscountAmount, &cmd.DiscountAmount, "discount_amount"},
	} {
		if field.raw == nil {
			continue
		}
		parsed, err := decimal.NewFromString(*field.raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid " + field.name,
			})
			return
		}
		*field.dest = &parsed
	}

	variant, err := h.updateVariantHandler.Handle(cmd)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrVariantNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrDuplicateSKU):
			status = http.StatusConflict
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to update variant")
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.refreshActiveProducts(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Variant updated successfully",
		Data:    variant,
	})
}

// DeleteVariant handles DELETE /api/catalog/variants/{id}
func (h *CatalogHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid variant ID",
		})
		return
	}

	if err := h.deleteVariantHandler.Handle(command.DeleteVariantCommand{VariantID: uint(id)}); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrVariantNotFound) {
			status = http.StatusNotFound
		}
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.refreshActiveProducts(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Variant deleted successfully",
	})
}

// FindVariant handles GET /api/catalog/variants?sku= or ?barcode=
func (h *CatalogHandler) FindVariant(w http.ResponseWriter, r *http.Request) {
	variant, err := h.findVariantHandler.Handle(query.FindVariantQuery{
		SKU:     r.URL.Query().Get("sku"),
		Barcode: r.URL.Query().Get("barcode"),
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrVariantNotFound) {
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
		Data:    variant,
	})
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/catalog/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/api/catalog/products", h.CreateProduct).Methods("POST")
	router.HandleFunc("/api/catalog/products/{id}", h.GetProduct).Methods("GET")
	router.HandleFunc("/api/catalog/products/{id}/active", h.ToggleActive).Methods("PATCH")
	router.HandleFunc("/api/catalog/products/{id}/recompute", h.RecomputeActivation).Methods("POST")
	router.HandleFunc("/api/catalog/variants", h.FindVariant).Methods("GET")
	router.HandleFunc("/api/catalog/variants", h.CreateVariant).Methods("POST")
	router.HandleFunc("/api/catalog/variants/{id}", h.UpdateVariant).Methods("PUT")
	router.HandleFunc("/api/catalog/variants/{id}", h.DeleteVariant).Methods("DELETE")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
