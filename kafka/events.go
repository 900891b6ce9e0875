package kafka

import "time"

// ReceiptSettledEvent is emitted after a receipt commits successfully
type ReceiptSettledEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ReceiptID     uint      `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	BusinessID    uint      `json:"business_id"`
	LineCount     int       `json:"line_count"`
	TotalAmount   string    `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	Timestamp     time.Time `json:"timestamp"`
}

// StockAdjustedEvent is emitted after any stock mutation commits
type StockAdjustedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	StockID    uint      `json:"stock_id"`
	VariantID  uint      `json:"variant_id"`
	LocationID uint      `json:"location_id"`
	Delta      int       `json:"delta"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeReceiptSettled = "receipt.settled"
	EventTypeStockAdjusted  = "stock.adjusted"
)

// Kafka topics
const (
	TopicReceiptSettled = "receipt-settled"
	TopicStockAdjusted  = "stock-adjusted"
)
