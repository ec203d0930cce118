package commands

import (
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/pkg/utils"
)

// StartSessionCommand opens a new wizard session
type StartSessionCommand struct{}

// Validate validates the command
func (c StartSessionCommand) Validate() error { return nil }

// DeleteSessionCommand discards a wizard session
type DeleteSessionCommand struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// Validate validates the command
func (c DeleteSessionCommand) Validate() error { return utils.ValidateStruct(c) }

// SetChannelCommand records the channel the framework belongs to
type SetChannelCommand struct {
	SessionID string `json:"sessionId" validate:"required"`
	Name      string `json:"name" validate:"max=200"`
	Code      string `json:"code" validate:"max=100"`
}

// Validate validates the command
func (c SetChannelCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateFrameworkCommand merges a partial update into the framework draft
type UpdateFrameworkCommand struct {
	SessionID   string  `json:"sessionId" validate:"required"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Code        *string `json:"code,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// Validate validates the command
func (c UpdateFrameworkCommand) Validate() error { return utils.ValidateStruct(c) }

// Patch returns the framework patch carried by the command
func (c UpdateFrameworkCommand) Patch() entities.FrameworkPatch {
	return entities.FrameworkPatch{
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
	}
}

// AddCategoryCommand appends a category to the draft
type AddCategoryCommand struct {
	SessionID   string `json:"sessionId" validate:"required"`
	Name        string `json:"name" validate:"max=200"`
	Code        string `json:"code" validate:"max=100"`
	Description string `json:"description" validate:"max=5000"`
}

// Validate validates the command
func (c AddCategoryCommand) Validate() error { return utils.ValidateStruct(c) }

// AddDefaultCategoryCommand appends one of the configured default categories
type AddDefaultCategoryCommand struct {
	SessionID string `json:"sessionId" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

// Validate validates the command
func (c AddDefaultCategoryCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveCategoryCommand removes the category at Index
type RemoveCategoryCommand struct {
	SessionID string `json:"sessionId" validate:"required"`
	Index     int    `json:"index" validate:"min=0"`
}

// Validate validates the command
func (c RemoveCategoryCommand) Validate() error { return utils.ValidateStruct(c) }

// AddTermCommand appends a term to the category at CategoryIndex
type AddTermCommand struct {
	SessionID     string `json:"sessionId" validate:"required"`
	CategoryIndex int    `json:"categoryIndex" validate:"min=0"`
	Name          string `json:"name" validate:"max=200"`
	Code          string `json:"code" validate:"max=100"`
	Description   string `json:"description" validate:"max=5000"`
}

// Validate validates the command
func (c AddTermCommand) Validate() error { return utils.ValidateStruct(c) }

// Term returns the term carried by the command
func (c AddTermCommand) Term() entities.Term {
	return entities.Term{Name: c.Name, Code: c.Code, Description: c.Description}
}
