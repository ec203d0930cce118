package commands

import (
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/pkg/utils"
)

// CreateChannelCommand creates a channel outside the wizard
type CreateChannelCommand struct {
	Name string `json:"name" validate:"max=200"`
	Code string `json:"code" validate:"max=100"`
}

// Validate validates the command. Blank fields are reported by the domain
// validator so the messages match the wizard's.
func (c CreateChannelCommand) Validate() error { return utils.ValidateStruct(c) }

// Channel returns the channel carried by the command
func (c CreateChannelCommand) Channel() entities.Channel {
	return entities.Channel{Name: c.Name, Code: c.Code}
}

// CreateChannelResult is returned after a channel is created
type CreateChannelResult struct {
	Identifier string `json:"identifier"`
}
