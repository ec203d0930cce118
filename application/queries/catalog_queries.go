package queries

import (
	"strings"

	"taxonomy-console/pkg/utils"
)

// ListFrameworksQuery lists frameworks in the given statuses, draft and
// live when none are given
type ListFrameworksQuery struct {
	Statuses []string `json:"status" validate:"omitempty,dive,oneof=Draft Live Retired"`
}

// Validate validates the query
func (q ListFrameworksQuery) Validate() error { return utils.ValidateStruct(q) }

// GetFrameworkQuery reads one framework with its categories and terms
type GetFrameworkQuery struct {
	Identifier string `json:"identifier" validate:"required,max=200"`
}

// Validate validates the query
func (q GetFrameworkQuery) Validate() error { return utils.ValidateStruct(q) }

// ListChannelsQuery lists channels matching a search term and status set
type ListChannelsQuery struct {
	Search   string   `json:"search" validate:"max=200"`
	Statuses []string `json:"status" validate:"omitempty,dive,oneof=Draft Live Retired"`
}

// Validate validates the query
func (q ListChannelsQuery) Validate() error { return utils.ValidateStruct(q) }

// Normalized trims the search term so equivalent queries share a cache entry
func (q ListChannelsQuery) Normalized() ListChannelsQuery {
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// DashboardQuery computes the framework counts and the recent activity list
type DashboardQuery struct{}

// Validate validates the query
func (q DashboardQuery) Validate() error { return nil }
