package query

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/business/domain"
)

// GetBusinessQuery represents the query to get a business by slug
type GetBusinessQuery struct {
	Slug string
}

// GetBusinessHandler handles get business query
type GetBusinessHandler struct {
	repo domain.BusinessRepository
}

// NewGetBusinessHandler creates a new get business handler
func NewGetBusinessHandler(repo domain.BusinessRepository) *GetBusinessHandler {
	return &GetBusinessHandler{repo: repo}
}

// Handle executes the get business query
func (h *GetBusinessHandler) Handle(query GetBusinessQuery) (*domain.Business, error) {
	if query.Slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	business, err := h.repo.FindBySlug(query.Slug)
	if err != nil {
		return nil, fmt.Errorf("business not found: %w", err)
	}

	return business, nil
}
