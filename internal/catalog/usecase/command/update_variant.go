package command

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/pkg/logger"
)

// UpdateVariantCommand represents the command to update a variant.
// Nil fields are left unchanged.
type UpdateVariantCommand struct {
	VariantID       uint
	Name            *string
	Barcode         *string
	Price           *decimal.Decimal
	DiscountPercent *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	ShowThis        *bool
}

// UpdateVariantHandler handles update variant command
type UpdateVariantHandler struct {
	variants  domain.VariantRepository
	recompute *RecomputeActivationHandler
}

// NewUpdateVariantHandler creates a new update variant handler
func NewUpdateVariantHandler(variants domain.VariantRepository, recompute *RecomputeActivationHandler) *UpdateVariantHandler {
	return &UpdateVariantHandler{variants: variants, recompute: recompute}
}

// Handle executes the update variant command
func (h *UpdateVariantHandler) Handle(cmd UpdateVariantCommand) (*domain.Variant, error) {
	if cmd.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}

	variant, err := h.variants.FindByID(cmd.VariantID)
	if err != nil {
		return nil, err
	}

	visibilityChanged := false

	if cmd.Name != nil {
		variant.Name = *cmd.Name
	}
	if cmd.Barcode != nil {
		variant.Barcode = *cmd.Barcode
	}
	if cmd.Price != nil {
		if cmd.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative")
		}
		variant.Price = *cmd.Price
	}
	if cmd.DiscountPercent != nil || cmd.DiscountAmount != nil {
		percent := variant.DiscountPercent
		amount := variant.DiscountAmount
		if cmd.DiscountPercent != nil {
			percent = *cmd.DiscountPercent
		}
		if cmd.DiscountAmount != nil {
			amount = *cmd.DiscountAmount
		}
		if err := validateDiscount(percent, amount); err != nil {
			return nil, err
		}
		variant.DiscountPercent = percent
		variant.DiscountAmount = amount
	}
	if cmd.ShowThis != nil && variant.ShowThis != *cmd.ShowThis {
		variant.ShowThis = *cmd.ShowThis
		visibilityChanged = true
	}

	if err := h.variants.Update(variant); err != nil {
		return nil, err
	}

	// Hiding or revealing a variant can flip the owning product's flag
	if visibilityChanged && h.recompute != nil {
		if _, err := h.recompute.Handle(RecomputeActivationCommand{ProductID: variant.ProductID}); err != nil {
			logger.Logger.Error().Err(err).Uint("product_id", variant.ProductID).Msg("Failed to recompute product activation")
		}
	}

	return variant, nil
}
