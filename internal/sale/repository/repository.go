package repository

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/retail-settlement/internal/sale/domain"
	stockdomain "github.com/tair/retail-settlement/internal/stock/domain"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GORM receipt repository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Receipt{}, &domain.Sale{}, &domain.PaymentMethod{})
}

// Commit settles a receipt in one transaction. Stock rows are locked in
// (variant_id, location_id) order so two concurrent settlements touching
// the same rows always acquire locks in the same sequence and cannot
// deadlock. Availability is re-checked under the lock; the check at
// validation time only filters the obvious failures early.
func (r *GormReceiptRepository) Commit(receipt *domain.Receipt, lines []domain.Sale) error {
	if len(lines) == 0 {
		return domain.ErrEmptyReceipt
	}

	// Sort line indices rather than the lines so a shortage can still be
	// reported against the caller's original line position.
	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := lines[order[i]], lines[order[j]]
		if a.VariantID != b.VariantID {
			return a.VariantID < b.VariantID
		}
		return a.LocationID < b.LocationID
	})
	sorted := make([]domain.Sale, len(lines))
	for i, idx := range order {
		sorted[i] = lines[idx]
	}

	total := receipt.TotalAmount

	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, line := range sorted {
			var stock stockdomain.Stock
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("variant_id = ? AND location_id = ?", line.VariantID, line.LocationID).
				First(&stock).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &stockdomain.InsufficientStockError{
					VariantID:  line.VariantID,
					LocationID: line.LocationID,
					Requested:  line.Quantity,
					Available:  0,
					LineIndex:  order[i],
				}
			}
			if err != nil {
				return err
			}

			var defective int
			if err := tx.Model(&stockdomain.Defect{}).
				Where("stock_id = ?", stock.ID).
				Select("COALESCE(SUM(quantity), 0)").
				Scan(&defective).Error; err != nil {
				return err
			}

			available := stock.Quantity - stock.ReservedQuantity - defective
			if !stock.AvailableForSale || available < line.Quantity {
				if !stock.AvailableForSale {
					available = 0
				}
				return &stockdomain.InsufficientStockError{
					VariantID:  line.VariantID,
					LocationID: line.LocationID,
					Requested:  line.Quantity,
					Available:  available,
					LineIndex:  order[i],
				}
			}

			if err := tx.Model(&stock).
				Update("quantity", stock.Quantity-line.Quantity).Error; err != nil {
				return err
			}
		}

		// The receipt row is created before its lines so the number
		// uniqueness check happens while nothing references the receipt yet.
		receipt.TotalAmount = decimal.Zero
		if err := tx.Create(receipt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrReceiptNumberCollision
			}
			return err
		}

		for i := range sorted {
			sorted[i].ReceiptID = receipt.ID
		}
		if err := tx.Create(&sorted).Error; err != nil {
			return err
		}

		if err := tx.Model(receipt).Update("total_amount", total).Error; err != nil {
			return err
		}
		receipt.TotalAmount = total
		receipt.Sales = sorted
		return nil
	})
}

func (r *GormReceiptRepository) FindByID(id uint) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.Preload("Sales").First(&receipt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *GormReceiptRepository) FindByNumber(number string) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.Preload("Sales").Where("number = ?", number).First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *GormReceiptRepository) FindAll(filter domain.ReceiptFilter) ([]domain.Receipt, error) {
	q := r.db.Preload("Sales").Order("created_at DESC, id DESC")

	if filter.BusinessID != 0 {
		q = q.Where("business_id = ?", filter.BusinessID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var receipts []domain.Receipt
	err := q.Find(&receipts).Error
	return receipts, err
}

// Delete soft-deletes a receipt. Stock is never restored here; voided
// sales go through a compensating adjustment instead.
func (r *GormReceiptRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Receipt{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GORM payment method repository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

func (r *GormPaymentMethodRepository) Create(method *domain.PaymentMethod) error {
	return r.db.Create(method).Error
}

func (r *GormPaymentMethodRepository) FindByID(id uint) (*domain.PaymentMethod, error) {
	var method domain.PaymentMethod
	err := r.db.First(&method, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPaymentMethodNotFound
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *GormPaymentMethodRepository) FindAll(activeOnly bool) ([]domain.PaymentMethod, error) {
	q := r.db.Order("id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var methods []domain.PaymentMethod
	err := q.Find(&methods).Error
	return methods, err
}
