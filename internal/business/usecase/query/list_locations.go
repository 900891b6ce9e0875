package query

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/business/domain"
)

// ListLocationsQuery represents the query to list a business's locations
type ListLocationsQuery struct {
	BusinessID uint
}

// ListLocationsHandler handles list locations query
type ListLocationsHandler struct {
	repo domain.LocationRepository
}

// NewListLocationsHandler creates a new list locations handler
func NewListLocationsHandler(repo domain.LocationRepository) *ListLocationsHandler {
	return &ListLocationsHandler{repo: repo}
}

// Handle executes the list locations query
func (h *ListLocationsHandler) Handle(query ListLocationsQuery) ([]domain.Location, error) {
	if query.BusinessID == 0 {
		return nil, fmt.Errorf("business_id is required")
	}

	locations, err := h.repo.FindByBusiness(query.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}
