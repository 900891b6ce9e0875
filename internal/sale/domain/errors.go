package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrReceiptNotFound means no receipt exists with the given ID or number
	ErrReceiptNotFound = errors.New("receipt not found")

	// ErrPaymentMethodNotFound means no payment method exists with the given ID
	ErrPaymentMethodNotFound = errors.New("payment method not found")

	// ErrReceiptNumberCollision means the generated receipt number is already
	// taken; the caller retries with a fresh number.
	ErrReceiptNumberCollision = errors.New("receipt number already exists")

	// ErrEmptyReceipt means a commit was attempted with no lines
	ErrEmptyReceipt = errors.New("receipt must contain at least one line")

	// ErrInactivePaymentMethod means the chosen tender is disabled
	ErrInactivePaymentMethod = errors.New("payment method is not active")
)

// CrossBusinessError reports a line whose variant or location belongs to
// a different business than the receipt
type CrossBusinessError struct {
	VariantID         uint
	LocationID        uint
	OwnerBusinessID   uint
	ReceiptBusinessID uint
}

func (e *CrossBusinessError) Error() string {
	if e.LocationID != 0 {
		return fmt.Sprintf(
			"location %d belongs to business %d, receipt belongs to business %d",
			e.LocationID, e.OwnerBusinessID, e.ReceiptBusinessID,
		)
	}
	return fmt.Sprintf(
		"variant %d belongs to business %d, receipt belongs to business %d",
		e.VariantID, e.OwnerBusinessID, e.ReceiptBusinessID,
	)
}
