package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
)

// CreateStockCommand represents the command to provision a stock row
type CreateStockCommand struct {
	VariantID  uint
	LocationID uint
	Quantity   int
}

// CreateStockHandler handles create stock command
type CreateStockHandler struct {
	repo domain.StockRepository
}

// NewCreateStockHandler creates a new create stock handler
func NewCreateStockHandler(repo domain.StockRepository) *CreateStockHandler {
	return &CreateStockHandler{repo: repo}
}

// Handle executes the create stock command
func (h *CreateStockHandler) Handle(cmd CreateStockCommand) (*domain.Stock, error) {
	if cmd.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}

	if cmd.LocationID == 0 {
		return nil, fmt.Errorf("location_id is required")
	}

	if cmd.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	stock := &domain.Stock{
		VariantID:        cmd.VariantID,
		LocationID:       cmd.LocationID,
		Quantity:         cmd.Quantity,
		AvailableForSale: true,
	}

	if err := h.repo.Create(stock); err != nil {
		return nil, fmt.Errorf("failed to create stock: %w", err)
	}

	return stock, nil
}
