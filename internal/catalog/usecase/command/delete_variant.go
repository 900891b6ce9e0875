package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/catalog/domain"
	"github.com/tair/retail-settlement/pkg/logger"
)

// DeleteVariantCommand represents the command to delete a variant
type DeleteVariantCommand struct {
	VariantID uint
}

// DeleteVariantHandler handles delete variant command
type DeleteVariantHandler struct {
	variants  domain.VariantRepository
	recompute *RecomputeActivationHandler
}

// NewDeleteVariantHandler creates a new delete variant handler
func NewDeleteVariantHandler(variants domain.VariantRepository, recompute *RecomputeActivationHandler) *DeleteVariantHandler {
	return &DeleteVariantHandler{variants: variants, recompute: recompute}
}

// Handle executes the delete variant command
func (h *DeleteVariantHandler) Handle(cmd DeleteVariantCommand) error {
	if cmd.VariantID == 0 {
		return fmt.Errorf("variant_id is required")
	}

	variant, err := h.variants.FindByID(cmd.VariantID)
	if err != nil {
		return err
	}

	if err := h.variants.Delete(cmd.VariantID); err != nil {
		return err
	}

	if h.recompute != nil {
		if _, err := h.recompute.Handle(RecomputeActivationCommand{ProductID: variant.ProductID}); err != nil {
			logger.Logger.Error().Err(err).Uint("product_id", variant.ProductID).Msg("Failed to recompute product activation")
		}
	}

	return nil
}
