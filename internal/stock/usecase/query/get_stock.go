package query

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
)

// GetStockQuery represents the query to get a stock row by ID
type GetStockQuery struct {
	StockID uint
}

// GetStockHandler handles get stock query
type GetStockHandler struct {
	repo domain.StockRepository
}

// NewGetStockHandler creates a new get stock handler
func NewGetStockHandler(repo domain.StockRepository) *GetStockHandler {
	return &GetStockHandler{repo: repo}
}

// Handle executes the get stock query
func (h *GetStockHandler) Handle(q GetStockQuery) (*domain.Stock, error) {
	if q.StockID == 0 {
		return nil, fmt.Errorf("stock_id is required")
	}

	return h.repo.FindByID(q.StockID)
}
