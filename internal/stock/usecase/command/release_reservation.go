package command

import (
	"context"
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
)

// ReleaseReservationCommand represents the command to release a stock hold
type ReleaseReservationCommand struct {
	VariantID  uint
	LocationID uint
	Quantity   int
}

// ReleaseReservationHandler handles release reservation command
type ReleaseReservationHandler struct {
	repo      domain.StockRepository
	notifier  domain.ActivationNotifier
	publisher *kafka.Publisher
}

// NewReleaseReservationHandler creates a new release reservation handler
func NewReleaseReservationHandler(repo domain.StockRepository, notifier domain.ActivationNotifier, publisher *kafka.Publisher) *ReleaseReservationHandler {
	return &ReleaseReservationHandler{repo: repo, notifier: notifier, publisher: publisher}
}

// Handle executes the release reservation command
func (h *ReleaseReservationHandler) Handle(ctx context.Context, cmd ReleaseReservationCommand) (*domain.Stock, error) {
	if cmd.VariantID == 0 || cmd.LocationID == 0 {
		return nil, fmt.Errorf("variant_id and location_id are required")
	}

	stock, err := h.repo.ReleaseReservation(cmd.VariantID, cmd.LocationID, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	notifyMutation(ctx, h.notifier, h.publisher, stock, 0, "release")
	return stock, nil
}
