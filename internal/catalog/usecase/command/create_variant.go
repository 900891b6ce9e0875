package command

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/pkg/logger"
)

// CreateVariantCommand represents the command to create a variant
type CreateVariantCommand struct {
	ProductID       uint
	SKU             string
	Barcode         string
	Name            string
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	ShowThis        bool
}

// CreateVariantHandler handles create variant command
type CreateVariantHandler struct {
	products  domain.ProductRepository
	variants  domain.VariantRepository
	recompute *RecomputeActivationHandler
}

// NewCreateVariantHandler creates a new create variant handler
func NewCreateVariantHandler(products domain.ProductRepository, variants domain.VariantRepository, recompute *RecomputeActivationHandler) *CreateVariantHandler {
	return &CreateVariantHandler{products: products, variants: variants, recompute: recompute}
}

// Handle executes the create variant command
func (h *CreateVariantHandler) Handle(cmd CreateVariantCommand) (*domain.Variant, error) {
	if cmd.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}

	if cmd.SKU == "" {
		return nil, fmt.Errorf("sku is required")
	}

	if cmd.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative")
	}

	if err := validateDiscount(cmd.DiscountPercent, cmd.DiscountAmount); err != nil {
		return nil, err
	}

	if _, err := h.products.FindByID(cmd.ProductID); err != nil {
		return nil, err
	}

	variant := &domain.Variant{
		ProductID:       cmd.ProductID,
		SKU:             cmd.SKU,
		Barcode:         cmd.Barcode,
		Name:            cmd.Name,
		Price:           cmd.Price,
		DiscountPercent: cmd.DiscountPercent,
		DiscountAmount:  cmd.DiscountAmount,
		ShowThis:        cmd.ShowThis,
	}

	if err := h.variants.Create(variant); err != nil {
		return nil, err
	}

	h.recomputeProduct(cmd.ProductID)
	return variant, nil
}

func (h *CreateVariantHandler) recomputeProduct(productID uint) {
	if h.recompute == nil {
		return
	}
	if _, err := h.recompute.Handle(RecomputeActivationCommand{ProductID: productID}); err != nil {
		logger.Logger.Error().Err(err).Uint("product_id", productID).Msg("Failed to recompute product activation")
	}
}

func validateDiscount(percent, amount decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("discount_percent must be between 0 and 100")
	}
	if amount.IsNegative() {
		return fmt.Errorf("discount_amount cannot be negative")
	}
	return nil
}
