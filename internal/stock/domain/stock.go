package domain

import (
	"time"

	"gorm.io/gorm"
)

// Stock tracks the quantity of one variant at one location.
// Availability is always derived: quantity minus reserved minus defective.
type Stock struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	VariantID        uint           `json:"variant_id" gorm:"not null;uniqueIndex:idx_stock_variant_location"`
	LocationID       uint           `json:"location_id" gorm:"not null;uniqueIndex:idx_stock_variant_location"`
	Quantity         int            `json:"quantity" gorm:"not null;default:0"`
	ReservedQuantity int            `json:"reserved_quantity" gorm:"not null;default:0"`
	AvailableForSale bool           `json:"is_available_for_sale" gorm:"default:true"`
	Defects          []Defect       `json:"defects,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Stock) TableName() string {
	return "stocks"
}

// DefectQuantity sums the loaded defect rows
func (s *Stock) DefectQuantity() int {
	total := 0
	for _, d := range s.Defects {
		total += d.Quantity
	}
	return total
}

// AvailableQuantity is quantity minus reserved minus defective.
// Must never be negative after any single mutation.
func (s *Stock) AvailableQuantity() int {
	return s.Quantity - s.ReservedQuantity - s.DefectQuantity()
}

// Defect marks a quantity of a stock row as unsellable.
// Purely additive; deleting it restores availability.
type Defect struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StockID   uint      `json:"stock_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Defect) TableName() string {
	return "stock_defects"
}

// StockRepository defines the contract for stock data access.
// All mutators run under a row-level lock on the stock record.
type StockRepository interface {
	Create(stock *Stock) error
	FindByID(id uint) (*Stock, error)
	FindByVariantAndLocation(variantID, locationID uint) (*Stock, error)
	FindByVariant(variantID uint) ([]Stock, error)
	FindByLocation(locationID uint, limit, offset int) ([]Stock, error)

	// AvailableQuantity computes quantity - reserved - defective for one row.
	AvailableQuantity(variantID, locationID uint) (int, error)

	// TotalAvailableByVariant sums availability across all locations.
	TotalAvailableByVariant(variantID uint) (int, error)

	Reserve(variantID, locationID uint, qty int) (*Stock, error)
	ReleaseReservation(variantID, locationID uint, qty int) (*Stock, error)
	AdjustQuantity(stockID uint, delta int) (*Stock, error)
	RecordDefect(stockID uint, qty int, reason string) (*Defect, error)
	RemoveDefect(defectID uint) (*Stock, error)
}

// ActivationNotifier is called after a stock mutation so the owning
// product's purchasable flag can be recomputed. Implementations must not
// fail the stock operation; errors are logged by the caller.
type ActivationNotifier interface {
	VariantAvailabilityChanged(variantID uint) error
}
