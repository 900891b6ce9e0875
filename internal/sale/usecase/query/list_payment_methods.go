package query

import (
	"github.com/tair/retail-settlement/internal/sale/domain"
)

// ListPaymentMethodsQuery represents the query to list tender types
type ListPaymentMethodsQuery struct {
	ActiveOnly bool
}

// ListPaymentMethodsHandler handles list payment methods query
type ListPaymentMethodsHandler struct {
	methods domain.PaymentMethodRepository
}

// NewListPaymentMethodsHandler creates a new list payment methods handler
func NewListPaymentMethodsHandler(methods domain.PaymentMethodRepository) *ListPaymentMethodsHandler {
	return &ListPaymentMethodsHandler{methods: methods}
}

// Handle executes the list payment methods query
func (h *ListPaymentMethodsHandler) Handle(q ListPaymentMethodsQuery) ([]domain.PaymentMethod, error) {
	return h.methods.FindAll(q.ActiveOnly)
}
