package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/catalog/domain"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Variant{})
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Preload("Variants").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Preload("Variants").Limit(limit).Offset(offset).Order("id").Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindByBusiness(businessID uint, limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Preload("Variants").
		Where("business_id = ?", businessID).
		Limit(limit).Offset(offset).Order("id").
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Update(product *domain.Product) error {
	return r.db.Save(product).Error
}

func (r *GormProductRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// SetActive writes only the is_active column so concurrent recomputes
// converge on the same value without clobbering other fields.
func (r *GormProductRepository) SetActive(id uint, active bool) error {
	result := r.db.Model(&domain.Product{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Product{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GORM variant repository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

func (r *GormVariantRepository) Create(variant *domain.Variant) error {
	err := r.db.Create(variant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateSKU
	}
	return err
}

func (r *GormVariantRepository) FindByID(id uint) (*domain.Variant, error) {
	var variant domain.Variant
	err := r.db.First(&variant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *GormVariantRepository) FindBySKU(sku string) (*domain.Variant, error) {
	var variant domain.Variant
	err := r.db.Where("sku = ?", sku).First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *GormVariantRepository) FindByBarcode(barcode string) (*domain.Variant, error) {
	var variant domain.Variant
	err := r.db.Where("barcode = ?", barcode).First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *GormVariantRepository) FindByProduct(productID uint) ([]domain.Variant, error) {
	var variants []domain.Variant
	err := r.db.Where("product_id = ?", productID).Order("id").Find(&variants).Error
	return variants, err
}

func (r *GormVariantRepository) Update(variant *domain.Variant) error {
	err := r.db.Save(variant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateSKU
	}
	return err
}

func (r *GormVariantRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Variant{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVariantNotFound
	}
	return nil
}
