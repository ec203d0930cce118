package handlers

import (
	"context"

	"taxonomy-console/application/queries"
	"taxonomy-console/application/queries/bus"
	"taxonomy-console/application/services"
)

// CatalogHandlers answers the read-view queries. Their results are cached
// because each one is a round trip to the taxonomy service.
type CatalogHandlers struct {
	catalog *services.CatalogService
}

// NewCatalogHandlers creates the catalog query handlers
func NewCatalogHandlers(catalog *services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Register adds the catalog queries to the bus, wrapped by the given
// middlewares. Either middleware may be nil.
func (h *CatalogHandlers) Register(b *bus.QueryBus, caching *bus.CachingMiddleware, metrics *bus.MetricsMiddleware) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.ListFrameworksQuery{}, bus.HandlerFor(h.listFrameworks)},
		{queries.GetFrameworkQuery{}, bus.HandlerFor(h.getFramework)},
		{queries.ListChannelsQuery{}, bus.HandlerFor(h.listChannels)},
		{queries.DashboardQuery{}, bus.HandlerFor(h.dashboard)},
	}
	for _, r := range registrations {
		handler := r.handler
		if caching != nil {
			handler = caching.Wrap(handler)
		}
		if metrics != nil {
			handler = metrics.Wrap(handler)
		}
		if err := b.Register(r.query, handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *CatalogHandlers) listFrameworks(ctx context.Context, q queries.ListFrameworksQuery) (interface{}, error) {
	return h.catalog.ListFrameworks(ctx, q.Statuses)
}

func (h *CatalogHandlers) getFramework(ctx context.Context, q queries.GetFrameworkQuery) (interface{}, error) {
	return h.catalog.GetFramework(ctx, q.Identifier)
}

func (h *CatalogHandlers) listChannels(ctx context.Context, q queries.ListChannelsQuery) (interface{}, error) {
	return h.catalog.ListChannels(ctx, services.ChannelFilter{Search: q.Search, Statuses: q.Statuses})
}

func (h *CatalogHandlers) dashboard(ctx context.Context, _ queries.DashboardQuery) (interface{}, error) {
	return h.catalog.Dashboard(ctx)
}
