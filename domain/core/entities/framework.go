package entities

// FrameworkStatus is the lifecycle state of a framework draft
type FrameworkStatus string

const (
	FrameworkStatusDraft     FrameworkStatus = "draft"
	FrameworkStatusPublished FrameworkStatus = "published"
)

// Framework holds the top-level fields of the taxonomy being authored.
// Identifier is assigned by the taxonomy service once the framework is created.
type Framework struct {
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Channels    []ChannelRef    `json:"channels"`
	Status      FrameworkStatus `json:"status"`
	Identifier  string          `json:"identifier,omitempty"`
}

// Clone returns a deep copy of the framework
func (f Framework) Clone() Framework {
	out := f
	out.Channels = append([]ChannelRef(nil), f.Channels...)
	return out
}

// IsPublished reports whether the framework has been published
func (f Framework) IsPublished() bool {
	return f.Status == FrameworkStatusPublished
}

// FrameworkPatch is a partial update; nil fields leave the current value untouched
type FrameworkPatch struct {
	Name        *string      `json:"name,omitempty"`
	Code        *string      `json:"code,omitempty"`
	Description *string      `json:"description,omitempty"`
	Channels    []ChannelRef `json:"channels,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p FrameworkPatch) IsEmpty() bool {
	return p.Name == nil && p.Code == nil && p.Description == nil && p.Channels == nil
}

// Apply merges the patch into a copy of f
func (p FrameworkPatch) Apply(f Framework) Framework {
	out := f.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Code != nil {
		out.Code = *p.Code
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Channels != nil {
		out.Channels = append([]ChannelRef(nil), p.Channels...)
	}
	return out
}
