package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is the settled record of a sale transaction. Its number is
// assigned at commit time and never reused; the total is written once
// all lines are persisted.
type Receipt struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Number          string          `json:"number" gorm:"uniqueIndex;not null"`
	BusinessID      uint            `json:"business_id" gorm:"not null;index"`
	PaymentMethodID uint            `json:"payment_method_id" gorm:"not null"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	IsOnline        bool            `json:"is_online" gorm:"default:false"`
	IsPaid          bool            `json:"is_paid" gorm:"default:true"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:numeric(5,2);default:0"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2);default:0"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);default:0"`
	Sales           []Sale          `json:"sales,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Receipt) TableName() string {
	return "receipts"
}

// Sale is a single settled line of a receipt. Prices are frozen copies
// taken at commit time; later variant price changes never touch them.
type Sale struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	ReceiptID       uint            `json:"receipt_id" gorm:"not null;index"`
	VariantID       uint            `json:"variant_id" gorm:"not null;index"`
	LocationID      uint            `json:"location_id" gorm:"not null"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit" gorm:"type:numeric(12,2);not null"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:numeric(5,2);default:0"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2);default:0"`
	TotalPrice      decimal.Decimal `json:"total_price" gorm:"type:numeric(12,2);not null"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "sales"
}

// PaymentMethod is a tender type accepted at settlement
type PaymentMethod struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// ReceiptFilter narrows receipt listings
type ReceiptFilter struct {
	BusinessID uint
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ReceiptRepository defines the contract for receipt data access.
// Commit is all-or-nothing: it locks every stock row the lines touch in
// a deterministic order, re-validates availability under the lock,
// decrements quantities and persists the receipt with its lines inside
// one transaction. Any failure rolls the whole settlement back.
type ReceiptRepository interface {
	Commit(receipt *Receipt, lines []Sale) error
	FindByID(id uint) (*Receipt, error)
	FindByNumber(number string) (*Receipt, error)
	FindAll(filter ReceiptFilter) ([]Receipt, error)
	Delete(id uint) error
}

// PaymentMethodRepository defines the contract for payment method data access
type PaymentMethodRepository interface {
	Create(method *PaymentMethod) error
	FindByID(id uint) (*PaymentMethod, error)
	FindAll(activeOnly bool) ([]PaymentMethod, error)
}

// ActivationRecomputer refreshes a product's purchasable flag after the
// settlement drained stock of one of its variants. Failures are logged
// by the caller, never propagated into the committed sale.
type ActivationRecomputer interface {
	VariantAvailabilityChanged(variantID uint) error
}
