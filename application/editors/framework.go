// Package editors holds the mutation surfaces of the wizard: channel and
// framework fields, categories, terms and associations. Every editor
// validates and trims its input before it touches the draft.
package editors

import (
	"strings"

	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
)

// FrameworkEditor edits the channel and the framework fields
type FrameworkEditor struct {
	validator *validators.DraftValidator
}

// NewFrameworkEditor creates a framework editor
func NewFrameworkEditor(validator *validators.DraftValidator) *FrameworkEditor {
	return &FrameworkEditor{validator: validator}
}

// SetChannel replaces the draft's channel
func (e *FrameworkEditor) SetChannel(draft *aggregates.Draft, channel entities.Channel) error {
	channel.Name = strings.TrimSpace(channel.Name)
	channel.Code = strings.TrimSpace(channel.Code)
	if err := e.validator.ValidateChannelFields(channel); err != nil {
		return err
	}
	draft.SetChannel(channel)
	return nil
}

// UpdateFramework merges a partial update into the draft's framework
func (e *FrameworkEditor) UpdateFramework(draft *aggregates.Draft, patch entities.FrameworkPatch) error {
	patch.Name = trimPtr(patch.Name)
	patch.Code = trimPtr(patch.Code)
	patch.Description = trimPtr(patch.Description)
	if patch.Channels != nil {
		channels := make([]entities.ChannelRef, len(patch.Channels))
		for i, ref := range patch.Channels {
			channels[i] = entities.ChannelRef{Identifier: strings.TrimSpace(ref.Identifier)}
		}
		patch.Channels = channels
	}

	if err := e.validator.ValidateFrameworkPatch(patch); err != nil {
		return err
	}
	draft.SetFramework(patch)
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
