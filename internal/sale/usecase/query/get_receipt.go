package query

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/sale/domain"
)

// GetReceiptQuery looks a receipt up by ID or by number
type GetReceiptQuery struct {
	ReceiptID uint
	Number    string
}

// GetReceiptHandler handles get receipt query
type GetReceiptHandler struct {
	receipts domain.ReceiptRepository
}

// NewGetReceiptHandler creates a new get receipt handler
func NewGetReceiptHandler(receipts domain.ReceiptRepository) *GetReceiptHandler {
	return &GetReceiptHandler{receipts: receipts}
}

// Handle executes the get receipt query
func (h *GetReceiptHandler) Handle(q GetReceiptQuery) (*domain.Receipt, error) {
	switch {
	case q.ReceiptID != 0:
		return h.receipts.FindByID(q.ReceiptID)
	case q.Number != "":
		return h.receipts.FindByNumber(q.Number)
	default:
		return nil, fmt.Errorf("receipt_id or number is required")
	}
}
