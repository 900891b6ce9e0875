package query

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/catalog/domain"
)

// FindVariantQuery looks a variant up by SKU or barcode; exactly one of
// the two must be set.
type FindVariantQuery struct {
	SKU     string
	Barcode string
}

// FindVariantHandler handles find variant query
type FindVariantHandler struct {
	repo domain.VariantRepository
}

// NewFindVariantHandler creates a new find variant handler
func NewFindVariantHandler(repo domain.VariantRepository) *FindVariantHandler {
	return &FindVariantHandler{repo: repo}
}

// Handle executes the find variant query
func (h *FindVariantHandler) Handle(q FindVariantQuery) (*domain.Variant, error) {
	switch {
	case q.SKU != "":
		return h.repo.FindBySKU(q.SKU)
	case q.Barcode != "":
		return h.repo.FindByBarcode(q.Barcode)
	default:
		return nil, fmt.Errorf("sku or barcode is required")
	}
}
