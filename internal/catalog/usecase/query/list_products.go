package query

import (
	"github.com/tair/retail-settlement/internal/catalog/domain"
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	BusinessID uint
	Limit      int
	Offset     int
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(q ListProductsQuery) ([]domain.Product, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}

	if q.BusinessID != 0 {
		return h.repo.FindByBusiness(q.BusinessID, q.Limit, q.Offset)
	}

	return h.repo.FindAll(q.Limit, q.Offset)
}
