package commands

import "taxonomy-console/pkg/utils"

// AdvanceCommand runs the current step's submission and moves forward on success
type AdvanceCommand struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// Validate validates the command
func (c AdvanceCommand) Validate() error { return utils.ValidateStruct(c) }

// RetreatCommand moves one step back without touching the remote service
type RetreatCommand struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// Validate validates the command
func (c RetreatCommand) Validate() error { return utils.ValidateStruct(c) }
