package command

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	businessdomain "github.com/tair/retail-settlement/internal/business/domain"
	catalogdomain "github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/internal/sale/document"
	"github.com/tair/retail-settlement/internal/sale/domain"
	"github.com/tair/retail-settlement/internal/sale/pricing"
	stockdomain "github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
	"github.com/tair/retail-settlement/pkg/logger"
)

// maxNumberAttempts bounds the retry loop on receipt number collisions
const maxNumberAttempts = 3

// CommitSaleLine is one requested line of a settlement
type CommitSaleLine struct {
	VariantID       uint
	LocationID      uint
	Quantity        int
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
}

// CommitSaleCommand represents the command to settle a sale
type CommitSaleCommand struct {
	BusinessID      uint
	PaymentMethodID uint
	CustomerName    string
	CustomerPhone   string
	IsOnline        bool
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	Lines           []CommitSaleLine
}

// CommitSaleHandler settles sales. Validation and pricing run up front;
// the repository then commits stock decrements, the receipt and its
// lines in a single transaction. Everything after that commit is
// best-effort and must never unwind the settlement.
type CommitSaleHandler struct {
	receipts   domain.ReceiptRepository
	methods    domain.PaymentMethodRepository
	businesses businessdomain.BusinessRepository
	locations  LocationFinder
	products   catalogdomain.ProductRepository
	variants   catalogdomain.VariantRepository
	stock      stockdomain.StockRepository
	recomputer domain.ActivationRecomputer
	publisher  *kafka.Publisher
	documents  document.Builder
}

// NewCommitSaleHandler creates a new commit sale handler
func NewCommitSaleHandler(
	receipts domain.ReceiptRepository,
	methods domain.PaymentMethodRepository,
	businesses businessdomain.BusinessRepository,
	locations LocationFinder,
	products catalogdomain.ProductRepository,
	variants catalogdomain.VariantRepository,
	stock stockdomain.StockRepository,
	recomputer domain.ActivationRecomputer,
	publisher *kafka.Publisher,
	documents document.Builder,
) *CommitSaleHandler {
	return &CommitSaleHandler{
		receipts:   receipts,
		methods:    methods,
		businesses: businesses,
		locations:  locations,
		products:   products,
		variants:   variants,
		stock:      stock,
		recomputer: recomputer,
		publisher:  publisher,
		documents:  documents,
	}
}

// LocationFinder resolves the location a line sells from; the business
// module's location repository satisfies it
type LocationFinder interface {
	FindByID(id uint) (*businessdomain.Location, error)
}

// pricedLine pairs the persisted sale line with the catalog rows it was
// priced from, for post-commit reporting
type pricedLine struct {
	sale    domain.Sale
	variant *catalogdomain.Variant
	product *catalogdomain.Product
}

// Handle executes the commit sale command
func (h *CommitSaleHandler) Handle(ctx context.Context, cmd CommitSaleCommand) (*domain.Receipt, error) {
	if cmd.BusinessID == 0 {
		return nil, fmt.Errorf("business_id is required")
	}
	if len(cmd.Lines) == 0 {
		return nil, domain.ErrEmptyReceipt
	}
	if cmd.DiscountPercent.IsNegative() || cmd.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("discount_percent must be between 0 and 100")
	}
	if cmd.DiscountAmount.IsNegative() {
		return nil, fmt.Errorf("discount_amount cannot be negative")
	}

	method, err := h.methods.FindByID(cmd.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if !method.IsActive {
		return nil, domain.ErrInactivePaymentMethod
	}

	priced, err := h.priceLines(cmd)
	if err != nil {
		return nil, err
	}

	lineSum := decimal.Zero
	lines := make([]domain.Sale, 0, len(priced))
	for _, p := range priced {
		lineSum = lineSum.Add(p.sale.TotalPrice)
		lines = append(lines, p.sale)
	}
	total := pricing.Round2(pricing.ReceiptTotal(lineSum, cmd.DiscountPercent, cmd.DiscountAmount))

	receipt := &domain.Receipt{
		BusinessID:      cmd.BusinessID,
		PaymentMethodID: cmd.PaymentMethodID,
		CustomerName:    cmd.CustomerName,
		CustomerPhone:   cmd.CustomerPhone,
		IsOnline:        cmd.IsOnline,
		IsPaid:          true,
		DiscountPercent: cmd.DiscountPercent,
		DiscountAmount:  cmd.DiscountAmount,
	}

	// Number collisions are vanishingly rare but recoverable; retry with
	// a fresh number instead of failing the sale.
	for attempt := 0; ; attempt++ {
		receipt.Number = newReceiptNumber()
		receipt.TotalAmount = total

		err = h.receipts.Commit(receipt, lines)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrReceiptNumberCollision) && attempt < maxNumberAttempts-1 {
			continue
		}
		return nil, err
	}

	h.afterCommit(ctx, receipt, method, priced)
	return receipt, nil
}

// priceLines validates ownership and availability, then freezes prices
func (h *CommitSaleHandler) priceLines(cmd CommitSaleCommand) ([]pricedLine, error) {
	priced := make([]pricedLine, 0, len(cmd.Lines))
	checkedLocations := make(map[uint]bool)

	for i, line := range cmd.Lines {
		if line.Quantity <= 0 {
			return nil, stockdomain.ErrInvalidQuantity
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("line discount_percent must be between 0 and 100")
		}
		if line.DiscountAmount.IsNegative() {
			return nil, fmt.Errorf("line discount_amount cannot be negative")
		}

		variant, err := h.variants.FindByID(line.VariantID)
		if err != nil {
			return nil, err
		}

		product, err := h.products.FindByID(variant.ProductID)
		if err != nil {
			return nil, err
		}
		if product.BusinessID != cmd.BusinessID {
			return nil, &domain.CrossBusinessError{
				VariantID:         variant.ID,
				OwnerBusinessID:   product.BusinessID,
				ReceiptBusinessID: cmd.BusinessID,
			}
		}

		if !checkedLocations[line.LocationID] {
			location, err := h.locations.FindByID(line.LocationID)
			if err != nil {
				return nil, err
			}
			if location.BusinessID != cmd.BusinessID {
				return nil, &domain.CrossBusinessError{
					LocationID:        location.ID,
					OwnerBusinessID:   location.BusinessID,
					ReceiptBusinessID: cmd.BusinessID,
				}
			}
			checkedLocations[line.LocationID] = true
		}

		// Early availability check; the commit re-validates under lock
		available, err := h.stock.AvailableQuantity(line.VariantID, line.LocationID)
		if err != nil {
			if errors.Is(err, stockdomain.ErrNoStockRecord) {
				available = 0
			} else {
				return nil, err
			}
		}
		if available < line.Quantity {
			return nil, &stockdomain.InsufficientStockError{
				VariantID:  line.VariantID,
				LocationID: line.LocationID,
				Requested:  line.Quantity,
				Available:  available,
				LineIndex:  i,
			}
		}

		unit := pricing.UnitPrice(variant.Price, variant.DiscountPercent, variant.DiscountAmount)
		lineTotal := pricing.LineTotal(unit, line.Quantity, line.DiscountPercent, line.DiscountAmount)

		priced = append(priced, pricedLine{
			sale: domain.Sale{
				VariantID:       line.VariantID,
				LocationID:      line.LocationID,
				Quantity:        line.Quantity,
				PricePerUnit:    pricing.Round2(unit),
				DiscountPercent: line.DiscountPercent,
				DiscountAmount:  line.DiscountAmount,
				TotalPrice:      pricing.Round2(lineTotal),
			},
			variant: variant,
			product: product,
		})
	}

	return priced, nil
}

// afterCommit runs the post-settlement side effects: activation
// recompute, event publication and document rendering. Failures are
// logged; the receipt stands regardless.
func (h *CommitSaleHandler) afterCommit(ctx context.Context, receipt *domain.Receipt, method *domain.PaymentMethod, priced []pricedLine) {
	if h.recomputer != nil {
		seen := make(map[uint]bool)
		for _, p := range priced {
			if seen[p.sale.VariantID] {
				continue
			}
			seen[p.sale.VariantID] = true
			if err := h.recomputer.VariantAvailabilityChanged(p.sale.VariantID); err != nil {
				logger.Error(ctx).
					Err(err).
					Uint("variant_id", p.sale.VariantID).
					Str("receipt_number", receipt.Number).
					Msg("Failed to recompute product activation after settlement")
			}
		}
	}

	if h.publisher != nil {
		event := kafka.ReceiptSettledEvent{
			ReceiptID:     receipt.ID,
			ReceiptNumber: receipt.Number,
			BusinessID:    receipt.BusinessID,
			LineCount:     len(priced),
			TotalAmount:   receipt.TotalAmount.String(),
			PaymentMethod: method.Code,
		}
		if err := h.publisher.PublishReceiptSettled(ctx, event); err != nil {
			logger.Error(ctx).
				Err(err).
				Str("receipt_number", receipt.Number).
				Msg("Failed to publish receipt settled event")
		}
	}

	if h.documents != nil {
		snapshot := h.snapshot(receipt, method, priced)
		if path, err := h.documents.Build(ctx, snapshot); err != nil {
			logger.Error(ctx).
				Err(err).
				Str("receipt_number", receipt.Number).
				Msg("Failed to build receipt document")
		} else {
			logger.Info(ctx).
				Str("receipt_number", receipt.Number).
				Str("document", path).
				Msg("Receipt document built")
		}
	}
}

func (h *CommitSaleHandler) snapshot(receipt *domain.Receipt, method *domain.PaymentMethod, priced []pricedLine) *document.ReceiptSnapshot {
	businessName := ""
	if h.businesses != nil {
		if business, err := h.businesses.FindByID(receipt.BusinessID); err == nil {
			businessName = business.Name
		}
	}

	lines := make([]document.LineSnapshot, 0, len(priced))
	for _, p := range priced {
		description := p.variant.Name
		if description == "" {
			description = p.product.Name
		}
		lines = append(lines, document.LineSnapshot{
			Description:  description,
			SKU:          p.variant.SKU,
			Quantity:     p.sale.Quantity,
			PricePerUnit: p.sale.PricePerUnit,
			TotalPrice:   p.sale.TotalPrice,
		})
	}

	return &document.ReceiptSnapshot{
		Number:          receipt.Number,
		BusinessName:    businessName,
		CustomerName:    receipt.CustomerName,
		PaymentMethod:   method.Name,
		Lines:           lines,
		DiscountPercent: receipt.DiscountPercent,
		DiscountAmount:  receipt.DiscountAmount,
		TotalAmount:     receipt.TotalAmount,
		SettledAt:       receipt.CreatedAt,
	}
}

// newReceiptNumber generates a CHK-prefixed number from a random UUID
func newReceiptNumber() string {
	id := uuid.New()
	return "CHK-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}
