package queries

import "taxonomy-console/pkg/utils"

// GetSessionQuery returns the current snapshot of a wizard session
type GetSessionQuery struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// Validate validates the query
func (q GetSessionQuery) Validate() error { return utils.ValidateStruct(q) }

// AvailableDefaultsQuery lists the default categories not yet in a session's draft
type AvailableDefaultsQuery struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// Validate validates the query
func (q AvailableDefaultsQuery) Validate() error { return utils.ValidateStruct(q) }
