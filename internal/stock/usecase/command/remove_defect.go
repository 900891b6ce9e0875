package command

import (
	"context"
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
)

// RemoveDefectCommand represents the command to delete a defect record
type RemoveDefectCommand struct {
	DefectID uint
}

// RemoveDefectHandler handles remove defect command
type RemoveDefectHandler struct {
	repo      domain.StockRepository
	notifier  domain.ActivationNotifier
	publisher *kafka.Publisher
}

// NewRemoveDefectHandler creates a new remove defect handler
func NewRemoveDefectHandler(repo domain.StockRepository, notifier domain.ActivationNotifier, publisher *kafka.Publisher) *RemoveDefectHandler {
	return &RemoveDefectHandler{repo: repo, notifier: notifier, publisher: publisher}
}

// Handle executes the remove defect command
func (h *RemoveDefectHandler) Handle(ctx context.Context, cmd RemoveDefectCommand) error {
	if cmd.DefectID == 0 {
		return fmt.Errorf("defect_id is required")
	}

	stock, err := h.repo.RemoveDefect(cmd.DefectID)
	if err != nil {
		return fmt.Errorf("failed to remove defect: %w", err)
	}

	notifyMutation(ctx, h.notifier, h.publisher, stock, 0, "defect_removed")
	return nil
}
