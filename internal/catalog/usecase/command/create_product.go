package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/catalog/domain"
)

// CreateProductCommand represents the command to create a product
type CreateProductCommand struct {
	BusinessID  uint
	Name        string
	Description string
}

// CreateProductHandler handles create product command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command. New products start
// inactive; they become purchasable once a visible variant has stock.
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.BusinessID == 0 {
		return nil, fmt.Errorf("business_id is required")
	}

	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	product := &domain.Product{
		BusinessID:  cmd.BusinessID,
		Name:        cmd.Name,
		Description: cmd.Description,
		IsActive:    false,
	}

	if err := h.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
