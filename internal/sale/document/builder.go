package document

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptSnapshot is the frozen view of a settled receipt handed to the
// renderer. It carries everything needed to produce the document so the
// renderer never reads the database.
type ReceiptSnapshot struct {
	Number          string
	BusinessName    string
	CustomerName    string
	PaymentMethod   string
	Lines           []LineSnapshot
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	SettledAt       time.Time
}

// LineSnapshot is one rendered receipt line
type LineSnapshot struct {
	Description  string
	SKU          string
	Quantity     int
	PricePerUnit decimal.Decimal
	TotalPrice   decimal.Decimal
}

// Builder renders a settled receipt into a document and returns a
// reference to it. Building runs after the settlement transaction has
// committed; an error here is logged and never unwinds the sale.
type Builder interface {
	Build(ctx context.Context, snapshot *ReceiptSnapshot) (string, error)
}
