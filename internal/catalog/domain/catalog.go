package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound means no product exists with the given ID
	ErrProductNotFound = errors.New("product not found")

	// ErrVariantNotFound means no variant exists with the given ID, SKU or barcode
	ErrVariantNotFound = errors.New("variant not found")

	// ErrDuplicateSKU means another variant already carries the SKU
	ErrDuplicateSKU = errors.New("sku already in use")
)

// Product groups sellable variants under one catalog entry.
// IsActive is derived from variant visibility and availability; it is
// recomputed explicitly after stock and variant mutations, never by
// database hooks.
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	BusinessID  uint           `json:"business_id" gorm:"not null;index"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	IsActive    bool           `json:"is_active" gorm:"default:false;index"`
	Variants    []Variant      `json:"variants,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Variant is a concrete purchasable form of a product. Price and the
// standing discount are decimals; arithmetic on them never goes through
// floats.
type Variant struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	ProductID       uint            `json:"product_id" gorm:"not null;index"`
	SKU             string          `json:"sku" gorm:"uniqueIndex;not null"`
	Barcode         string          `json:"barcode" gorm:"index"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:numeric(5,2);default:0"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2);default:0"`
	ShowThis        bool            `json:"show_this" gorm:"default:true"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Variant) TableName() string {
	return "product_variants"
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	FindByBusiness(businessID uint, limit, offset int) ([]Product, error)
	Update(product *Product) error
	Delete(id uint) error

	// SetActive flips the derived purchasable flag. Implementations write
	// only the flag so concurrent recomputes stay idempotent.
	SetActive(id uint, active bool) error

	// CountActive reports how many products are currently purchasable
	CountActive() (int64, error)
}

// VariantRepository defines the contract for variant data access
type VariantRepository interface {
	Create(variant *Variant) error
	FindByID(id uint) (*Variant, error)
	FindBySKU(sku string) (*Variant, error)
	FindByBarcode(barcode string) (*Variant, error)
	FindByProduct(productID uint) ([]Variant, error)
	Update(variant *Variant) error
	Delete(id uint) error
}

// StockReader is the read-side view of stock the activation recompute
// needs. The stock repository satisfies it directly.
type StockReader interface {
	TotalAvailableByVariant(variantID uint) (int, error)
}
