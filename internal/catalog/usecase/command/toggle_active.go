package command

import (
	"fmt"

	"github.com/tair/retail-settlement/internal/catalog/domain"
)

// ToggleActiveCommand represents a manual override of the purchasable flag
type ToggleActiveCommand struct {
	ProductID uint
	IsActive  bool
}

// ToggleActiveHandler handles toggle active command. The override holds
// only until the next recompute runs; it exists for back-office takedowns.
type ToggleActiveHandler struct {
	repo domain.ProductRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.ProductRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(cmd ToggleActiveCommand) error {
	if cmd.ProductID == 0 {
		return fmt.Errorf("product_id is required")
	}

	return h.repo.SetActive(cmd.ProductID, cmd.IsActive)
}
