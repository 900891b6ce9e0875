package command

import (
	"context"
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
)

// AdjustQuantityCommand represents the command to restock or correct quantity
type AdjustQuantityCommand struct {
	StockID uint
	Delta   int
	Reason  string
}

// AdjustQuantityHandler handles adjust quantity command
type AdjustQuantityHandler struct {
	repo      domain.StockRepository
	notifier  domain.ActivationNotifier
	publisher *kafka.Publisher
}

// NewAdjustQuantityHandler creates a new adjust quantity handler
func NewAdjustQuantityHandler(repo domain.StockRepository, notifier domain.ActivationNotifier, publisher *kafka.Publisher) *AdjustQuantityHandler {
	return &AdjustQuantityHandler{repo: repo, notifier: notifier, publisher: publisher}
}

// Handle executes the adjust quantity command
func (h *AdjustQuantityHandler) Handle(ctx context.Context, cmd AdjustQuantityCommand) (*domain.Stock, error) {
	if cmd.StockID == 0 {
		return nil, fmt.Errorf("stock_id is required")
	}

	if cmd.Delta == 0 {
		return nil, fmt.Errorf("delta must be non-zero")
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "adjustment"
	}

	stock, err := h.repo.AdjustQuantity(cmd.StockID, cmd.Delta)
	if err != nil {
		return nil, err
	}

	notifyMutation(ctx, h.notifier, h.publisher, stock, cmd.Delta, reason)
	return stock, nil
}
