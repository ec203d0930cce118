//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"taxonomy-console/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideDomainConfig,
	ProvideCollector,
	ProvideTracing,
	ProvideTaxonomyClient,
	ProvideSessionStore,
	ProvideReadCache,
	ProvideEventPublisher,
	ProvideDraftValidator,
	ProvideSubmissionAdapter,
	ProvideWizardService,
	ProvideCatalogService,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideErrorHandler,
	wire.Struct(new(Container), "Config", "LogLevel", "Logger", "Collector", "Tracing", "TaxonomyClient",
		"Sessions", "ReadCache", "Publisher", "WizardService", "CatalogService", "CommandBus", "QueryBus", "ErrorHandler"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
