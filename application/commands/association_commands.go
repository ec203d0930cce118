package commands

import (
	"taxonomy-console/domain/core/valueobjects"
	"taxonomy-console/pkg/utils"
)

// SelectAssociationSourceCommand picks the category, and optionally the
// term, whose associations are being edited. A nil TermIndex selects the
// category only.
type SelectAssociationSourceCommand struct {
	SessionID     string `json:"sessionId" validate:"required"`
	CategoryIndex int    `json:"categoryIndex" validate:"min=0"`
	TermIndex     *int   `json:"termIndex,omitempty" validate:"omitempty,min=0"`
}

// Validate validates the command
func (c SelectAssociationSourceCommand) Validate() error { return utils.ValidateStruct(c) }

// ToggleAssociationCommand flips one candidate in the selection buffer
type ToggleAssociationCommand struct {
	SessionID    string `json:"sessionId" validate:"required"`
	CategoryCode string `json:"categoryCode" validate:"required"`
	TermCode     string `json:"termCode" validate:"required"`
}

// Validate validates the command
func (c ToggleAssociationCommand) Validate() error { return utils.ValidateStruct(c) }

// Key returns the association key the command toggles
func (c ToggleAssociationCommand) Key() (valueobjects.AssociationKey, error) {
	return valueobjects.NewAssociationKey(c.CategoryCode, c.TermCode)
}

// SaveAssociationsCommand writes the selection buffer onto the source term
type SaveAssociationsCommand struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// Validate validates the command
func (c SaveAssociationsCommand) Validate() error { return utils.ValidateStruct(c) }
