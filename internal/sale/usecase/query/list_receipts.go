package query

import (
	"time"

	"github.com/tair/retail-settlement/internal/sale/domain"
)

// ListReceiptsQuery represents the query to list receipts
type ListReceiptsQuery struct {
	BusinessID uint
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ListReceiptsHandler handles list receipts query
type ListReceiptsHandler struct {
	receipts domain.ReceiptRepository
}

// NewListReceiptsHandler creates a new list receipts handler
func NewListReceiptsHandler(receipts domain.ReceiptRepository) *ListReceiptsHandler {
	return &ListReceiptsHandler{receipts: receipts}
}

// Handle executes the list receipts query
func (h *ListReceiptsHandler) Handle(q ListReceiptsQuery) ([]domain.Receipt, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}

	return h.receipts.FindAll(domain.ReceiptFilter{
		BusinessID: q.BusinessID,
		From:       q.From,
		To:         q.To,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
}
