package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/catalog/domain"
)

// RecomputeActivationCommand represents the command to refresh a product's
// purchasable flag from its variants
type RecomputeActivationCommand struct {
	ProductID uint
}

// RecomputeActivationHandler derives product.is_active from variant state:
// a product is purchasable when at least one variant is visible and has
// sellable stock somewhere. The recompute is idempotent; running it twice
// in a row never changes the outcome of the second run.
type RecomputeActivationHandler struct {
	products domain.ProductRepository
	variants domain.VariantRepository
	stock    domain.StockReader
}

// NewRecomputeActivationHandler creates a new recompute activation handler
func NewRecomputeActivationHandler(products domain.ProductRepository, variants domain.VariantRepository, stock domain.StockReader) *RecomputeActivationHandler {
	return &RecomputeActivationHandler{products: products, variants: variants, stock: stock}
}

// Handle executes the recompute and reports the resulting flag
func (h *RecomputeActivationHandler) Handle(cmd RecomputeActivationCommand) (bool, error) {
	if cmd.ProductID == 0 {
		return false, fmt.Errorf("product_id is required")
	}

	product, err := h.products.FindByID(cmd.ProductID)
	if err != nil {
		return false, err
	}

	variants, err := h.variants.FindByProduct(cmd.ProductID)
	if err != nil {
		return false, err
	}

	active := false
	for _, v := range variants {
		if !v.ShowThis {
			continue
		}
		available, err := h.stock.TotalAvailableByVariant(v.ID)
		if err != nil {
			return false, fmt.Errorf("failed to read availability for variant %d: %w", v.ID, err)
		}
		if available > 0 {
			active = true
			break
		}
	}

	if product.IsActive == active {
		return active, nil
	}

	if err := h.products.SetActive(cmd.ProductID, active); err != nil {
		return false, err
	}

	return active, nil
}

// VariantAvailabilityChanged recomputes the owning product after a stock
// mutation touched the variant. Satisfies the stock package's notifier
// contract without importing it.
func (h *RecomputeActivationHandler) VariantAvailabilityChanged(variantID uint) error {
	variant, err := h.variants.FindByID(variantID)
	if err != nil {
		return err
	}

	_, err = h.Handle(RecomputeActivationCommand{ProductID: variant.ProductID})
	return err
}
