package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStockRecord means no stock row exists for (variant, location).
	// Callers selling against it treat this as zero availability.
	ErrNoStockRecord = errors.New("no stock record for variant at location")

	// ErrInvalidReservation means a release exceeds the reserved quantity
	ErrInvalidReservation = errors.New("release exceeds reserved quantity")

	// ErrInvalidQuantity means a mutation was requested with qty <= 0
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// InsufficientStockError reports how many units the caller is short by.
// LineIndex is the position of the offending receipt line, or -1 when the
// shortage did not arise from a receipt.
type InsufficientStockError struct {
	VariantID  uint
	LocationID uint
	Requested  int
	Available  int
	LineIndex  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for variant %d at location %d: requested %d, available %d (short %d)",
		e.VariantID, e.LocationID, e.Requested, e.Available, e.Shortfall(),
	)
}

// Shortfall is the number of missing units
func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

// DefectExceedsAvailableError reports a defect that would drive availability negative
type DefectExceedsAvailableError struct {
	StockID   uint
	Requested int
	Available int
}

func (e *DefectExceedsAvailableError) Error() string {
	return fmt.Sprintf(
		"defect of %d exceeds available quantity %d on stock %d",
		e.Requested, e.Available, e.StockID,
	)
}
