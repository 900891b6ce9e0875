package command

import (
	"context"
	"fmt"

	"github.com/tair/retail-settlement/internal/sale/domain"
	"github.com/tair/retail-settlement/pkg/logger"
)

// DeleteReceiptCommand represents the command to void a receipt
type DeleteReceiptCommand struct {
	ReceiptID uint
}

// DeleteReceiptHandler soft-deletes a receipt. The settled stock
// decrement is left alone; restoring units is a deliberate separate
// adjustment, not a side effect of hiding the document.
type DeleteReceiptHandler struct {
	receipts domain.ReceiptRepository
}

// NewDeleteReceiptHandler creates a new delete receipt handler
func NewDeleteReceiptHandler(receipts domain.ReceiptRepository) *DeleteReceiptHandler {
	return &DeleteReceiptHandler{receipts: receipts}
}

// Handle executes the delete receipt command
func (h *DeleteReceiptHandler) Handle(ctx context.Context, cmd DeleteReceiptCommand) error {
	if cmd.ReceiptID == 0 {
		return fmt.Errorf("receipt_id is required")
	}

	if err := h.receipts.Delete(cmd.ReceiptID); err != nil {
		return err
	}

	logger.Info(ctx).Uint("receipt_id", cmd.ReceiptID).Msg("Receipt deleted")
	return nil
}
