package entities

// Channel is the namespace a framework is published under
type Channel struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// IsZero reports whether no channel details have been entered yet
func (c Channel) IsZero() bool {
	return c.Name == "" && c.Code == ""
}

// ChannelRef is a weak reference to a channel by its identifier
type ChannelRef struct {
	Identifier string `json:"identifier"`
}
