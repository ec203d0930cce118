package di

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"taxonomy-console/application/commands/bus"
	"taxonomy-console/application/ports"
	querybus "taxonomy-console/application/queries/bus"
	"taxonomy-console/application/services"
	"taxonomy-console/infrastructure/cache"
	"taxonomy-console/infrastructure/config"
	"taxonomy-console/infrastructure/observability"
	"taxonomy-console/infrastructure/session"
	appErrors "taxonomy-console/pkg/errors"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	LogLevel       zap.AtomicLevel
	Logger         *zap.Logger
	Collector      *observability.Collector
	Tracing        *observability.TracerProvider
	TaxonomyClient ports.TaxonomyClient
	Sessions       *session.MemoryStore
	ReadCache      *cache.InMemoryCache
	Publisher      ports.EventPublisher
	WizardService  *services.WizardService
	CatalogService *services.CatalogService
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	ErrorHandler   *appErrors.ErrorHandler

	watcher *config.Watcher
}

// Validate checks that every component was wired
func (c *Container) Validate() error {
	switch {
	case c.Config == nil:
		return errors.New("config not initialized")
	case c.Logger == nil:
		return errors.New("logger not initialized")
	case c.TaxonomyClient == nil:
		return errors.New("taxonomy client not initialized")
	case c.Sessions == nil:
		return errors.New("session store not initialized")
	case c.WizardService == nil || c.CatalogService == nil:
		return errors.New("application services not initialized")
	case c.CommandBus == nil || c.QueryBus == nil:
		return errors.New("buses not initialized")
	case c.ErrorHandler == nil:
		return errors.New("error handler not initialized")
	}
	return nil
}

// WatchConfig reloads the configuration from loader's directory and applies
// the parts that can change at runtime: the log level and the wizard limits.
// It is a no-op outside development.
func (c *Container) WatchConfig(loader *config.Loader) error {
	watcher, err := config.NewWatcher(c.Config, loader, c.Logger)
	if err != nil {
		return err
	}
	watcher.OnChange(func(next *config.Config) {
		c.LogLevel.SetLevel(parseLevel(next.LogLevel))
		if err := c.WizardService.UpdateDomainConfig(next.DomainConfig()); err != nil {
			c.Logger.Error("Rejected wizard configuration", zap.Error(err))
		}
	})
	c.watcher = watcher
	return nil
}

// Health reports the state of each component
func (c *Container) Health(ctx context.Context) map[string]string {
	health := map[string]string{
		"container": "healthy",
		"config":    string(c.Config.Environment),
	}
	if c.Sessions != nil {
		health["sessions"] = fmt.Sprintf("%d active", c.Sessions.Count(ctx))
	}
	if c.Config.Events.Enabled {
		health["events"] = "eventbridge"
	} else {
		health["events"] = "log"
	}
	return health
}

// Shutdown stops background work and flushes telemetry
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.watcher != nil {
		c.watcher.Stop()
	}
	if c.Sessions != nil {
		c.Sessions.Close()
	}
	if c.ReadCache != nil {
		c.ReadCache.Close()
	}
	if c.Tracing != nil {
		if err := c.Tracing.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}
	if c.Logger != nil {
		// Sync fails on stdout and stderr on some platforms
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}
