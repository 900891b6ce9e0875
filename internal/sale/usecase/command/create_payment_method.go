package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/sale/domain"
)

// CreatePaymentMethodCommand represents the command to register a tender type
type CreatePaymentMethodCommand struct {
	Code string
	Name string
}

// CreatePaymentMethodHandler handles create payment method command
type CreatePaymentMethodHandler struct {
	methods domain.PaymentMethodRepository
}

// NewCreatePaymentMethodHandler creates a new create payment method handler
func NewCreatePaymentMethodHandler(methods domain.PaymentMethodRepository) *CreatePaymentMethodHandler {
	return &CreatePaymentMethodHandler{methods: methods}
}

// Handle executes the create payment method command
func (h *CreatePaymentMethodHandler) Handle(cmd CreatePaymentMethodCommand) (*domain.PaymentMethod, error) {
	if cmd.Code == "" {
		return nil, fmt.Errorf("code is required")
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	method := &domain.PaymentMethod{
		Code:     cmd.Code,
		Name:     cmd.Name,
		IsActive: true,
	}

	if err := h.methods.Create(method); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}

	return method, nil
}
