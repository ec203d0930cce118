package handlers

import (
	"context"

	"taxonomy-console/application/queries"
	"taxonomy-console/application/queries/bus"
	"taxonomy-console/application/services"
)

// SessionHandlers answers queries about wizard sessions. They are never
// cached since a session changes with every command.
type SessionHandlers struct {
	wizard *services.WizardService
}

// NewSessionHandlers creates the session query handlers
func NewSessionHandlers(wizard *services.WizardService) *SessionHandlers {
	return &SessionHandlers{wizard: wizard}
}

// Register adds the session queries to the bus
func (h *SessionHandlers) Register(b *bus.QueryBus, metrics *bus.MetricsMiddleware) error {
	getSession := bus.HandlerFor(h.getSession)
	defaults := bus.HandlerFor(h.availableDefaults)
	if metrics != nil {
		getSession = metrics.Wrap(getSession)
		defaults = metrics.Wrap(defaults)
	}
	if err := b.Register(queries.GetSessionQuery{}, getSession); err != nil {
		return err
	}
	return b.Register(queries.AvailableDefaultsQuery{}, defaults)
}

func (h *SessionHandlers) getSession(ctx context.Context, q queries.GetSessionQuery) (interface{}, error) {
	return h.wizard.GetSession(ctx, q.SessionID)
}

func (h *SessionHandlers) availableDefaults(ctx context.Context, q queries.AvailableDefaultsQuery) (interface{}, error) {
	return h.wizard.AvailableDefaults(ctx, q.SessionID)
}
