package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/retail-settlement/internal/stock/domain"
)

type GormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Stock{}, &domain.Defect{})
}

func (r *GormStockRepository) Create(stock *domain.Stock) error {
	return r.db.Create(stock).Error
}

func (r *GormStockRepository) FindByID(id uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.Preload("Defects").First(&stock, id).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *GormStockRepository) FindByVariantAndLocation(variantID, locationID uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.Preload("Defects").
		Where("variant_id = ? AND location_id = ?", variantID, locationID).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoStockRecord
		}
		return nil, err
	}
	return &stock, nil
}

func (r *GormStockRepository) FindByVariant(variantID uint) ([]domain.Stock, error) {
	var stocks []domain.Stock
	err := r.db.Preload("Defects").
		Where("variant_id = ?", variantID).
		Find(&stocks).Error
	return stocks, err
}

func (r *GormStockRepository) FindByLocation(locationID uint, limit, offset int) ([]domain.Stock, error) {
	var stocks []domain.Stock
	err := r.db.Preload("Defects").
		Where("location_id = ?", locationID).
		Limit(limit).Offset(offset).
		Find(&stocks).Error
	return stocks, err
}

func (r *GormStockRepository) AvailableQuantity(variantID, locationID uint) (int, error) {
	stock, err := r.FindByVariantAndLocation(variantID, locationID)
	if err != nil {
		return 0, err
	}
	return stock.AvailableQuantity(), nil
}

func (r *GormStockRepository) TotalAvailableByVariant(variantID uint) (int, error) {
	stocks, err := r.FindByVariant(variantID)
	if err != nil {
		return 0, err
	}
	total := 0
	for i := range stocks {
		total += stocks[i].AvailableQuantity()
	}
	return total, nil
}

// lockStock loads one stock row FOR UPDATE inside tx
func lockStock(tx *gorm.DB, variantID, locationID uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("variant_id = ? AND location_id = ?", variantID, locationID).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoStockRecord
		}
		return nil, err
	}
	return &stock, nil
}

// lockStockByID loads one stock row FOR UPDATE inside tx
func lockStockByID(tx *gorm.DB, stockID uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&stock, stockID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoStockRecord
		}
		return nil, err
	}
	return &stock, nil
}

// defectTotal sums defect quantities for a stock row inside tx.
// Defect rows are never mutated concurrently with their locked stock row,
// so reading them under the stock lock is safe.
func defectTotal(tx *gorm.DB, stockID uint) (int, error) {
	var total int
	err := tx.Model(&domain.Defect{}).
		Where("stock_id = ?", stockID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *GormStockRepository) Reserve(variantID, locationID uint, qty int) (*domain.Stock, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var result *domain.Stock
	err := r.db.Transaction(func(tx *gorm.DB) error {
		stock, err := lockStock(tx, variantID, locationID)
		if err != nil {
			return err
		}

		defects, err := defectTotal(tx, stock.ID)
		if err != nil {
			return err
		}

		available := stock.Quantity - stock.ReservedQuantity - defects
		if qty > available {
			return &domain.InsufficientStockError{
				VariantID:  variantID,
				LocationID: locationID,
				Requested:  qty,
				Available:  available,
				LineIndex:  -1,
			}
		}

		stock.ReservedQuantity += qty
		if err := tx.Model(stock).Update("reserved_quantity", stock.ReservedQuantity).Error; err != nil {
			return err
		}
		result = stock
		return nil
	})
	return result, err
}

func (r *GormStockRepository) ReleaseReservation(variantID, locationID uint, qty int) (*domain.Stock, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var result *domain.Stock
	err := r.db.Transaction(func(tx *gorm.DB) error {
		stock, err := lockStock(tx, variantID, locationID)
		if err != nil {
			return err
		}

		if qty > stock.ReservedQuantity {
			return domain.ErrInvalidReservation
		}

		stock.ReservedQuantity -= qty
		if err := tx.Model(stock).Update("reserved_quantity", stock.ReservedQuantity).Error; err != nil {
			return err
		}
		result = stock
		return nil
	})
	return result, err
}

func (r *GormStockRepository) AdjustQuantity(stockID uint, delta int) (*domain.Stock, error) {
	var result *domain.Stock
	err := r.db.Transaction(func(tx *gorm.DB) error {
		stock, err := lockStockByID(tx, stockID)
		if err != nil {
			return err
		}

		defects, err := defectTotal(tx, stock.ID)
		if err != nil {
			return err
		}

		newQuantity := stock.Quantity + delta
		if newQuantity-stock.ReservedQuantity-defects < 0 {
			return &domain.InsufficientStockError{
				VariantID:  stock.VariantID,
				LocationID: stock.LocationID,
				Requested:  -delta,
				Available:  stock.Quantity - stock.ReservedQuantity - defects,
				LineIndex:  -1,
			}
		}

		stock.Quantity = newQuantity
		if err := tx.Model(stock).Update("quantity", stock.Quantity).Error; err != nil {
			return err
		}
		result = stock
		return nil
	})
	return result, err
}

func (r *GormStockRepository) RecordDefect(stockID uint, qty int, reason string) (*domain.Defect, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var defect *domain.Defect
	err := r.db.Transaction(func(tx *gorm.DB) error {
		stock, err := lockStockByID(tx, stockID)
		if err != nil {
			return err
		}

		defects, err := defectTotal(tx, stock.ID)
		if err != nil {
			return err
		}

		available := stock.Quantity - stock.ReservedQuantity - defects
		if qty > available {
			return &domain.DefectExceedsAvailableError{
				StockID:   stockID,
				Requested: qty,
				Available: available,
			}
		}

		defect = &domain.Defect{
			StockID:  stockID,
			Quantity: qty,
			Reason:   reason,
		}
		return tx.Create(defect).Error
	})
	return defect, err
}

func (r *GormStockRepository) RemoveDefect(defectID uint) (*domain.Stock, error) {
	var result *domain.Stock
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var defect domain.Defect
		if err := tx.First(&defect, defectID).Error; err != nil {
			return err
		}

		stock, err := lockStockByID(tx, defect.StockID)
		if err != nil {
			return err
		}

		if err := tx.Delete(&defect).Error; err != nil {
			return err
		}
		result = stock
		return nil
	})
	return result, err
}
