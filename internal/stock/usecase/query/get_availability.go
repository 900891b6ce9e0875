package query

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
)

// GetAvailabilityQuery represents the query to get sellable quantity
type GetAvailabilityQuery struct {
	VariantID  uint
	LocationID uint
}

// Availability is the read model returned to callers
type Availability struct {
	VariantID  uint `json:"variant_id"`
	LocationID uint `json:"location_id,omitempty"`
	Available  int  `json:"available"`
}

// GetAvailabilityHandler handles get availability query
type GetAvailabilityHandler struct {
	repo domain.StockRepository
}

// NewGetAvailabilityHandler creates a new get availability handler
func NewGetAvailabilityHandler(repo domain.StockRepository) *GetAvailabilityHandler {
	return &GetAvailabilityHandler{repo: repo}
}

// Handle executes the get availability query. When LocationID is zero the
// result is the total across every location carrying the variant.
func (h *GetAvailabilityHandler) Handle(q GetAvailabilityQuery) (*Availability, error) {
	if q.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}

	if q.LocationID == 0 {
		total, err := h.repo.TotalAvailableByVariant(q.VariantID)
		if err != nil {
			return nil, err
		}
		return &Availability{VariantID: q.VariantID, Available: total}, nil
	}

	available, err := h.repo.AvailableQuantity(q.VariantID, q.LocationID)
	if err != nil {
		return nil, err
	}

	return &Availability{VariantID: q.VariantID, LocationID: q.LocationID, Available: available}, nil
}
