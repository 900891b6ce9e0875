package command

import (
	"context"
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
)

// ReserveStockCommand represents the command to place a hold on stock
type ReserveStockCommand struct {
	VariantID  uint
	LocationID uint
	Quantity   int
}

// ReserveStockHandler handles reserve stock command
type ReserveStockHandler struct {
	repo      domain.StockRepository
	notifier  domain.ActivationNotifier
	publisher *kafka.Publisher
}

// NewReserveStockHandler creates a new reserve stock handler
func NewReserveStockHandler(repo domain.StockRepository, notifier domain.ActivationNotifier, publisher *kafka.Publisher) *ReserveStockHandler {
	return &ReserveStockHandler{repo: repo, notifier: notifier, publisher: publisher}
}

// Handle executes the reserve stock command
func (h *ReserveStockHandler) Handle(ctx context.Context, cmd ReserveStockCommand) (*domain.Stock, error) {
	if cmd.VariantID == 0 || cmd.LocationID == 0 {
		return nil, fmt.Errorf("variant_id and location_id are required")
	}

	stock, err := h.repo.Reserve(cmd.VariantID, cmd.LocationID, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	notifyMutation(ctx, h.notifier, h.publisher, stock, 0, "reserve")
	return stock, nil
}
