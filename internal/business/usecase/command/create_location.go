package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/business/domain"
)

// CreateLocationCommand represents the command to create a location
type CreateLocationCommand struct {
	BusinessID   uint
	Name         string
	Address      string
	ContactPhone string
	IsWarehouse  bool
	IsSalesPoint bool
	IsPrimary    bool
}

// CreateLocationHandler handles create location command
type CreateLocationHandler struct {
	repo domain.LocationRepository
}

// NewCreateLocationHandler creates a new create location handler
func NewCreateLocationHandler(repo domain.LocationRepository) *CreateLocationHandler {
	return &CreateLocationHandler{repo: repo}
}

// Handle executes the create location command
func (h *CreateLocationHandler) Handle(cmd CreateLocationCommand) (*domain.Location, error) {
	if cmd.BusinessID == 0 {
		return nil, fmt.Errorf("business_id is required")
	}

	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if !cmd.IsWarehouse && !cmd.IsSalesPoint {
		return nil, fmt.Errorf("location must be a warehouse, a sales point, or both")
	}

	location := &domain.Location{
		BusinessID:   cmd.BusinessID,
		Name:         cmd.Name,
		Address:      cmd.Address,
		ContactPhone: cmd.ContactPhone,
		IsWarehouse:  cmd.IsWarehouse,
		IsSalesPoint: cmd.IsSalesPoint,
		IsActive:     true,
		IsPrimary:    cmd.IsPrimary,
	}

	if err := h.repo.Create(location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}
