package query

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
)

// ListStockByLocationQuery represents the query to list stock rows at a location
type ListStockByLocationQuery struct {
	LocationID uint
	Limit      int
	Offset     int
}

// ListStockByVariantQuery represents the query to list stock rows of a variant
type ListStockByVariantQuery struct {
	VariantID uint
}

// ListStockHandler handles stock listing queries
type ListStockHandler struct {
	repo domain.StockRepository
}

// NewListStockHandler creates a new list stock handler
func NewListStockHandler(repo domain.StockRepository) *ListStockHandler {
	return &ListStockHandler{repo: repo}
}

// HandleByLocation executes the list by location query
func (h *ListStockHandler) HandleByLocation(q ListStockByLocationQuery) ([]domain.Stock, error) {
	if q.LocationID == 0 {
		return nil, fmt.Errorf("location_id is required")
	}

	if q.Limit <= 0 {
		q.Limit = 10
	}

	return h.repo.FindByLocation(q.LocationID, q.Limit, q.Offset)
}

// HandleByVariant executes the list by variant query
func (h *ListStockHandler) HandleByVariant(q ListStockByVariantQuery) ([]domain.Stock, error) {
	if q.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}

	return h.repo.FindByVariant(q.VariantID)
}
