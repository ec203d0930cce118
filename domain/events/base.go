package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event type names
const (
	TypeDraftStarted        = "draft.started"
	TypeChannelSet          = "draft.channel_set"
	TypeFrameworkUpdated    = "draft.framework_updated"
	TypeCategoriesReplaced  = "draft.categories_replaced"
	TypeCategoryAdded       = "draft.category_added"
	TypeCategoryRemoved     = "draft.category_removed"
	TypeTermAdded           = "draft.term_added"
	TypeTermAssociationsSet = "draft.term_associations_set"
	TypeFrameworkCreated    = "framework.created"
	TypeCategoryCreated     = "framework.category_created"
	TypeFrameworkPublished  = "framework.published"
	TypeChannelCreated      = "channel.created"
)

func newBase(aggregateID, eventType string, version int, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   at,
		Version:     version,
	}
}

// Draft events

// DraftStarted is raised when a new draft is created
type DraftStarted struct {
	BaseEvent
	DefaultChannel string `json:"default_channel"`
}

// NewDraftStarted creates a DraftStarted event
func NewDraftStarted(draftID, defaultChannel string, at time.Time) DraftStarted {
	return DraftStarted{BaseEvent: newBase(draftID, TypeDraftStarted, 1, at), DefaultChannel: defaultChannel}
}

// ChannelSet is raised when the draft's channel is replaced
type ChannelSet struct {
	BaseEvent
	Code string `json:"code"`
}

// NewChannelSet creates a ChannelSet event
func NewChannelSet(draftID string, version int, code string, at time.Time) ChannelSet {
	return ChannelSet{BaseEvent: newBase(draftID, TypeChannelSet, version, at), Code: code}
}

// FrameworkUpdated is raised when framework fields are merged into the draft
type FrameworkUpdated struct {
	BaseEvent
	Fields []string `json:"fields"`
}

// NewFrameworkUpdated creates a FrameworkUpdated event
func NewFrameworkUpdated(draftID string, version int, fields []string, at time.Time) FrameworkUpdated {
	return FrameworkUpdated{BaseEvent: newBase(draftID, TypeFrameworkUpdated, version, at), Fields: fields}
}

// CategoriesReplaced is raised when the whole category list is replaced
type CategoriesReplaced struct {
	BaseEvent
	Count int `json:"count"`
}

// NewCategoriesReplaced creates a CategoriesReplaced event
func NewCategoriesReplaced(draftID string, version, count int, at time.Time) CategoriesReplaced {
	return CategoriesReplaced{BaseEvent: newBase(draftID, TypeCategoriesReplaced, version, at), Count: count}
}

// CategoryAdded is raised when a category is appended to the draft
type CategoryAdded struct {
	BaseEvent
	Code  string `json:"code"`
	Index int    `json:"index"`
}

// NewCategoryAdded creates a CategoryAdded event
func NewCategoryAdded(draftID string, version int, code string, index int, at time.Time) CategoryAdded {
	return CategoryAdded{BaseEvent: newBase(draftID, TypeCategoryAdded, version, at), Code: code, Index: index}
}

// CategoryRemoved is raised when a category is removed along with the
// associations that pointed at its terms
type CategoryRemoved struct {
	BaseEvent
	Code                string `json:"code"`
	DroppedAssociations int    `json:"dropped_associations"`
}

// NewCategoryRemoved creates a CategoryRemoved event
func NewCategoryRemoved(draftID string, version int, code string, dropped int, at time.Time) CategoryRemoved {
	return CategoryRemoved{
		BaseEvent:           newBase(draftID, TypeCategoryRemoved, version, at),
		Code:                code,
		DroppedAssociations: dropped,
	}
}

// TermAdded is raised when a term is appended to a category
type TermAdded struct {
	BaseEvent
	CategoryCode string `json:"category_code"`
	Code         string `json:"code"`
}

// NewTermAdded creates a TermAdded event
func NewTermAdded(draftID string, version int, categoryCode, code string, at time.Time) TermAdded {
	return TermAdded{BaseEvent: newBase(draftID, TypeTermAdded, version, at), CategoryCode: categoryCode, Code: code}
}

// TermAssociationsSet is raised when a term's association list is replaced
type TermAssociationsSet struct {
	BaseEvent
	CategoryCode string `json:"category_code"`
	Code         string `json:"code"`
	Count        int    `json:"count"`
}

// NewTermAssociationsSet creates a TermAssociationsSet event
func NewTermAssociationsSet(draftID string, version int, categoryCode, code string, count int, at time.Time) TermAssociationsSet {
	return TermAssociationsSet{
		BaseEvent:    newBase(draftID, TypeTermAssociationsSet, version, at),
		CategoryCode: categoryCode,
		Code:         code,
		Count:        count,
	}
}

// Remote events, raised once the taxonomy service accepted a submission

// FrameworkCreated is raised when the framework was created remotely
type FrameworkCreated struct {
	BaseEvent
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
	Channel    string `json:"channel"`
}

// NewFrameworkCreated creates a FrameworkCreated event
func NewFrameworkCreated(draftID string, version int, identifier, code, channel string, at time.Time) FrameworkCreated {
	return FrameworkCreated{
		BaseEvent:  newBase(draftID, TypeFrameworkCreated, version, at),
		Identifier: identifier,
		Code:       code,
		Channel:    channel,
	}
}

// CategoryCreated is raised for every category created remotely
type CategoryCreated struct {
	BaseEvent
	FrameworkIdentifier string `json:"framework_identifier"`
	Code                string `json:"code"`
	Terms               int    `json:"terms"`
}

// NewCategoryCreated creates a CategoryCreated event
func NewCategoryCreated(draftID string, version int, frameworkID, code string, terms int, at time.Time) CategoryCreated {
	return CategoryCreated{
		BaseEvent:           newBase(draftID, TypeCategoryCreated, version, at),
		FrameworkIdentifier: frameworkID,
		Code:                code,
		Terms:               terms,
	}
}

// FrameworkPublished is raised when the framework was published remotely
type FrameworkPublished struct {
	BaseEvent
	Identifier string `json:"identifier"`
	Categories int    `json:"categories"`
	Terms      int    `json:"terms"`
}

// NewFrameworkPublished creates a FrameworkPublished event
func NewFrameworkPublished(draftID string, version int, identifier string, categories, terms int, at time.Time) FrameworkPublished {
	return FrameworkPublished{
		BaseEvent:  newBase(draftID, TypeFrameworkPublished, version, at),
		Identifier: identifier,
		Categories: categories,
		Terms:      terms,
	}
}

// ChannelCreated is raised when a channel was created from the channel page
type ChannelCreated struct {
	BaseEvent
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

// NewChannelCreated creates a ChannelCreated event
func NewChannelCreated(identifier, code string, at time.Time) ChannelCreated {
	return ChannelCreated{BaseEvent: newBase(identifier, TypeChannelCreated, 1, at), Identifier: identifier, Code: code}
}
