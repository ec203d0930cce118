package ports

import (
	"context"
	"time"

	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/events"
	"taxonomy-console/domain/wizard"
)

// TaxonomyClient is the boundary to the external taxonomy service.
// The domain doesn't know about the transport behind it.
type TaxonomyClient interface {
	// SearchFrameworks runs a composite search for frameworks in the given statuses
	SearchFrameworks(ctx context.Context, statuses []string) ([]entities.FrameworkRecord, error)

	// SearchChannels runs a composite search for channels in the given statuses
	SearchChannels(ctx context.Context, statuses []string) ([]entities.ChannelRecord, error)

	// ReadFramework fetches one framework with its categories and terms
	ReadFramework(ctx context.Context, identifier string) (*entities.FrameworkRecord, error)

	// CreateFramework creates the framework and returns its identifier
	CreateFramework(ctx context.Context, framework entities.Framework) (string, error)

	// CreateCategory creates one category (with its terms) under a framework
	// and returns the category identifier
	CreateCategory(ctx context.Context, frameworkID string, category entities.Category) (string, error)

	// PublishFramework publishes a framework
	PublishFramework(ctx context.Context, frameworkID string) error

	// CreateChannel creates a channel and returns its identifier
	CreateChannel(ctx context.Context, channel entities.Channel) (string, error)
}

// SessionStore keeps wizard sessions between requests
type SessionStore interface {
	// Save stores or replaces a session
	Save(ctx context.Context, session *wizard.Session) error

	// Get returns a session or a SESSION_NOT_FOUND error
	Get(ctx context.Context, id string) (*wizard.Session, error)

	// Delete discards a session; deleting an unknown session is not an error
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions
	Count(ctx context.Context) int
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}

// WizardMetrics records wizard activity
type WizardMetrics interface {
	// RecordAdvance counts a submission attempt for a step with its outcome
	RecordAdvance(step string, outcome string, duration time.Duration)

	// SetActiveSessions reports the number of live sessions
	SetActiveSessions(count int)
}
