package command

import (
	"fmt"
	"strings"

	"github.com/tair/retail-settlement/internal/business/domain"
)

// CreateBusinessCommand represents the command to create a business
type CreateBusinessCommand struct {
	OwnerID     uint
	Name        string
	Slug        string
	Description string
	Address     string
	Phone       string
}

// CreateBusinessHandler handles create business command
type CreateBusinessHandler struct {
	repo domain.BusinessRepository
}

// NewCreateBusinessHandler creates a new create business handler
func NewCreateBusinessHandler(repo domain.BusinessRepository) *CreateBusinessHandler {
	return &CreateBusinessHandler{repo: repo}
}

// Handle executes the create business command
func (h *CreateBusinessHandler) Handle(cmd CreateBusinessCommand) (*domain.Business, error) {
	if cmd.OwnerID == 0 {
		return nil, fmt.Errorf("owner_id is required")
	}

	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if cmd.Slug == "" {
		cmd.Slug = strings.ToLower(strings.ReplaceAll(cmd.Name, " ", "-"))
	}

	business := &domain.Business{
		OwnerID:     cmd.OwnerID,
		Name:        cmd.Name,
		Slug:        cmd.Slug,
		Description: cmd.Description,
		Address:     cmd.Address,
		Phone:       cmd.Phone,
	}

	if err := h.repo.Create(business); err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	return business, nil
}
