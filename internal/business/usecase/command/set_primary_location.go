package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/business/domain"
)

// SetPrimaryLocationCommand represents the command to change the primary location
type SetPrimaryLocationCommand struct {
	BusinessID uint
	LocationID uint
}

// SetPrimaryLocationHandler handles set primary location command
type SetPrimaryLocationHandler struct {
	repo domain.LocationRepository
}

// NewSetPrimaryLocationHandler creates a new set primary location handler
func NewSetPrimaryLocationHandler(repo domain.LocationRepository) *SetPrimaryLocationHandler {
	return &SetPrimaryLocationHandler{repo: repo}
}

// Handle executes the set primary location command
func (h *SetPrimaryLocationHandler) Handle(cmd SetPrimaryLocationCommand) error {
	if cmd.BusinessID == 0 {
		return fmt.Errorf("business_id is required")
	}

	if cmd.LocationID == 0 {
		return fmt.Errorf("location_id is required")
	}

	if err := h.repo.SetPrimary(cmd.BusinessID, cmd.LocationID); err != nil {
		return fmt.Errorf("failed to set primary location: %w", err)
	}

	return nil
}
