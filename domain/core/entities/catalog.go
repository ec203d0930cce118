package entities

import "strings"

// FrameworkRecord is a framework as returned by the taxonomy service
type FrameworkRecord struct {
	Identifier          string           `json:"identifier"`
	Name                string           `json:"name"`
	Code                string           `json:"code"`
	Description         string           `json:"description,omitempty"`
	Status              string           `json:"status"`
	Channel             string           `json:"channel,omitempty"`
	Type                string           `json:"type,omitempty"`
	ObjectType          string           `json:"objectType,omitempty"`
	VersionKey          string           `json:"versionKey,omitempty"`
	CreatedOn           string           `json:"createdOn,omitempty"`
	LastUpdatedOn       string           `json:"lastUpdatedOn,omitempty"`
	LastStatusChangedOn string           `json:"lastStatusChangedOn,omitempty"`
	Categories          []CategoryRecord `json:"categories,omitempty"`
}

// CategoryRecord is a framework category as returned by the read endpoint
type CategoryRecord struct {
	Identifier  string       `json:"identifier"`
	Name        string       `json:"name"`
	Code        string       `json:"code"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status,omitempty"`
	Index       int          `json:"index,omitempty"`
	Terms       []TermRecord `json:"terms,omitempty"`
}

// TermRecord is a category term as returned by the read endpoint
type TermRecord struct {
	Identifier   string              `json:"identifier"`
	Name         string              `json:"name"`
	Code         string              `json:"code"`
	Description  string              `json:"description,omitempty"`
	Status       string              `json:"status,omitempty"`
	Category     string              `json:"category,omitempty"`
	Index        int                 `json:"index,omitempty"`
	Associations []AssociationRecord `json:"associations,omitempty"`
}

// AssociationRecord is a term reference as returned by the read endpoint
type AssociationRecord struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Category   string `json:"category"`
	Status     string `json:"status,omitempty"`
}

// ChannelRecord is a channel as returned by the taxonomy service
type ChannelRecord struct {
	Identifier    string `json:"identifier"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status"`
	CreatedOn     string `json:"createdOn,omitempty"`
	LastUpdatedOn string `json:"lastUpdatedOn,omitempty"`
}

// Status labels shown by the console
const (
	StatusLabelPublished = "Published"
	StatusLabelDraft     = "Draft"
)

// StatusLabel maps a remote status to the console label: "live" in any case is
// Published, everything else is Draft.
func StatusLabel(status string) string {
	if strings.EqualFold(status, "live") {
		return StatusLabelPublished
	}
	return StatusLabelDraft
}

// IsLive reports whether the framework is live on the taxonomy service
func (f FrameworkRecord) IsLive() bool {
	return StatusLabel(f.Status) == StatusLabelPublished
}
