package domain

import (
	"time"

	"gorm.io/gorm"
)

// Business represents a tenant that owns locations, products and receipts
type Business struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OwnerID     uint           `json:"owner_id" gorm:"not null;index"`
	Name        string         `json:"name" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	Phone       string         `json:"phone"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Business) TableName() string {
	return "businesses"
}

// Location is a warehouse or sales point owned by a business.
// A business has at most one primary location at a time.
type Location struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	BusinessID   uint           `json:"business_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"not null"`
	Address      string         `json:"address"`
	ContactPhone string         `json:"contact_phone"`
	IsWarehouse  bool           `json:"is_warehouse" gorm:"default:false"`
	IsSalesPoint bool           `json:"is_sales_point" gorm:"default:false"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	IsPrimary    bool           `json:"is_primary" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Location) TableName() string {
	return "business_locations"
}

// BusinessRepository defines the contract for business data access
type BusinessRepository interface {
	Create(business *Business) error
	FindByID(id uint) (*Business, error)
	FindBySlug(slug string) (*Business, error)
	FindAll(limit, offset int) ([]Business, error)
	Update(business *Business) error
	Delete(id uint) error
}

// LocationRepository defines the contract for location data access
type LocationRepository interface {
	Create(location *Location) error
	FindByID(id uint) (*Location, error)
	FindByBusiness(businessID uint) ([]Location, error)
	Update(location *Location) error
	Delete(id uint) error

	// SetPrimary marks one location primary and unsets its siblings
	// in the same transaction.
	SetPrimary(businessID, locationID uint) error
}
