package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/retail-settlement/internal/business/domain"
	"github.com/tair/retail-settlement/internal/business/usecase/command"
	"github.com/tair/retail-settlement/internal/business/usecase/query"
	"github.com/tair/retail-settlement/pkg/logger"
)

// BusinessHandler handles HTTP requests for businesses and locations
type BusinessHandler struct {
	createBusinessHandler *command.CreateBusinessHandler
	createLocationHandler *command.CreateLocationHandler
	setPrimaryHandler     *command.SetPrimaryLocationHandler

	getBusinessHandler   *query.GetBusinessHandler
	listLocationsHandler *query.ListLocationsHandler
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessRepo domain.BusinessRepository, locationRepo domain.LocationRepository) *BusinessHandler {
	return &BusinessHandler{
		createBusinessHandler: command.NewCreateBusinessHandler(businessRepo),
		createLocationHandler: command.NewCreateLocationHandler(locationRepo),
		setPrimaryHandler:     command.NewSetPrimaryLocationHandler(locationRepo),
		getBusinessHandler:    query.NewGetBusinessHandler(businessRepo),
		listLocationsHandler:  query.NewListLocationsHandler(locationRepo),
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateBusiness handles POST /api/businesses
func (h *BusinessHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID     uint   `json:"owner_id"`
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	business, err := h.createBusinessHandler.Handle(command.CreateBusinessCommand{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create business")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Business created successfully",
		Data:    business,
	})
}

// GetBusiness handles GET /api/businesses/{slug}
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	business, err := h.getBusinessHandler.Handle(query.GetBusinessQuery{Slug: vars["slug"]})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Business not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    business,
	})
}

// CreateLocation handles POST /api/businesses/{id}/locations
func (h *BusinessHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid business ID",
		})
		return
	}

	var req struct {
		Name         string `json:"name"`
		Address      string `json:"address"`
		ContactPhone string `json:"contact_phone"`
		IsWarehouse  bool   `json:"is_warehouse"`
		IsSalesPoint bool   `json:"is_sales_point"`
		IsPrimary    bool   `json:"is_primary"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	location, err := h.createLocationHandler.Handle(command.CreateLocationCommand{
		BusinessID:   uint(businessID),
		Name:         req.Name,
		Address:      req.Address,
		ContactPhone: req.ContactPhone,
		IsWarehouse:  req.IsWarehouse,
		IsSalesPoint: req.IsSalesPoint,
		IsPrimary:    req.IsPrimary,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create location")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Location created successfully",
		Data:    location,
	})
}

// ListLocations handles GET /api/businesses/{id}/locations
func (h *BusinessHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid business ID",
		})
		return
	}

	locations, err := h.listLocationsHandler.Handle(query.ListLocationsQuery{BusinessID: uint(businessID)})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list locations")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list locations",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    locations,
	})
}

// SetPrimaryLocation handles PATCH /api/businesses/{id}/locations/{location_id}/primary
func (h *BusinessHandler) SetPrimaryLocation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid business ID",
		})
		return
	}
	locationID, err := strconv.ParseUint(vars["location_id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid location ID",
		})
		return
	}

	if err := h.setPrimaryHandler.Handle(command.SetPrimaryLocationCommand{
		BusinessID: uint(businessID),
		LocationID: uint(locationID),
	}); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to set primary location")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Primary location updated",
	})
}

// RegisterRoutes registers all business routes
func (h *BusinessHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/businesses", h.CreateBusiness).Methods("POST")
	router.HandleFunc("/api/businesses/{slug}", h.GetBusiness).Methods("GET")
	router.HandleFunc("/api/businesses/{id}/locations", h.CreateLocation).Methods("POST")
	router.HandleFunc("/api/businesses/{id}/locations", h.ListLocations).Methods("GET")
	router.HandleFunc("/api/businesses/{id}/locations/{location_id}/primary", h.SetPrimaryLocation).Methods("PATCH")
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
