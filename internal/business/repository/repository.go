package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tair/retail-settlement/internal/business/domain"
)

type GormBusinessRepository struct {
	db *gorm.DB
}

func NewGormBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

func (r *GormBusinessRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Business{}, &domain.Location{})
}

func (r *GormBusinessRepository) Create(business *domain.Business) error {
	return r.db.Create(business).Error
}

func (r *GormBusinessRepository) FindByID(id uint) (*domain.Business, error) {
	var business domain.Business
	err := r.db.First(&business, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *GormBusinessRepository) FindBySlug(slug string) (*domain.Business, error) {
	var business domain.Business
	err := r.db.Where("slug = ?", slug).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *GormBusinessRepository) FindAll(limit, offset int) ([]domain.Business, error) {
	var businesses []domain.Business
	err := r.db.Limit(limit).Offset(offset).Find(&businesses).Error
	return businesses, err
}

func (r *GormBusinessRepository) Update(business *domain.Business) error {
	return r.db.Save(business).Error
}

func (r *GormBusinessRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Business{}, id).Error
}

type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) Create(location *domain.Location) error {
	if !location.IsPrimary {
		return r.db.Create(location).Error
	}
	// A new primary location demotes existing siblings atomically.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(location).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Location{}).
			Where("business_id = ? AND id <> ?", location.BusinessID, location.ID).
			Update("is_primary", false).Error
	})
}

func (r *GormLocationRepository) FindByID(id uint) (*domain.Location, error) {
	var location domain.Location
	err := r.db.First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *GormLocationRepository) FindByBusiness(businessID uint) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.Where("business_id = ?", businessID).
		Order("is_primary DESC, name ASC").
		Find(&locations).Error
	return locations, err
}

func (r *GormLocationRepository) Update(location *domain.Location) error {
	if !location.IsPrimary {
		return r.db.Save(location).Error
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(location).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Location{}).
			Where("business_id = ? AND id <> ?", location.BusinessID, location.ID).
			Update("is_primary", false).Error
	})
}

func (r *GormLocationRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Location{}, id).Error
}

func (r *GormLocationRepository) SetPrimary(businessID, locationID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Location{}).
			Where("id = ? AND business_id = ?", locationID, businessID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLocationNotFound
		}
		return tx.Model(&domain.Location{}).
			Where("business_id = ? AND id <> ?", businessID, locationID).
			Update("is_primary", false).Error
	})
}
