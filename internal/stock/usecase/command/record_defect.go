package command

import (
	"context"
	"fmt"

	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
)

// RecordDefectCommand represents the command to mark stock as defective
type RecordDefectCommand struct {
	StockID  uint
	Quantity int
	Reason   string
}

// RecordDefectHandler handles record defect command
type RecordDefectHandler struct {
	repo      domain.StockRepository
	notifier  domain.ActivationNotifier
	publisher *kafka.Publisher
}

// NewRecordDefectHandler creates a new record defect handler
func NewRecordDefectHandler(repo domain.StockRepository, notifier domain.ActivationNotifier, publisher *kafka.Publisher) *RecordDefectHandler {
	return &RecordDefectHandler{repo: repo, notifier: notifier, publisher: publisher}
}

// Handle executes the record defect command
func (h *RecordDefectHandler) Handle(ctx context.Context, cmd RecordDefectCommand) (*domain.Defect, error) {
	if cmd.StockID == 0 {
		return nil, fmt.Errorf("stock_id is required")
	}

	if cmd.Reason == "" {
		return nil, fmt.Errorf("reason is required")
	}

	defect, err := h.repo.RecordDefect(cmd.StockID, cmd.Quantity, cmd.Reason)
	if err != nil {
		return nil, err
	}

	stock, err := h.repo.FindByID(cmd.StockID)
	if err == nil {
		notifyMutation(ctx, h.notifier, h.publisher, stock, 0, "defect")
	}

	return defect, nil
}
