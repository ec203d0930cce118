package di

import (
	"context"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taxonomy-console/application/commands/bus"
	commandhandlers "taxonomy-console/application/commands/handlers"
	"taxonomy-console/application/ports"
	querybus "taxonomy-console/application/queries/bus"
	queryhandlers "taxonomy-console/application/queries/handlers"
	"taxonomy-console/application/services"
	"taxonomy-console/application/submission"
	domainconfig "taxonomy-console/domain/config"
	"taxonomy-console/domain/core/validators"
	"taxonomy-console/infrastructure/cache"
	"taxonomy-console/infrastructure/config"
	"taxonomy-console/infrastructure/messaging"
	"taxonomy-console/infrastructure/messaging/eventbridge"
	"taxonomy-console/infrastructure/observability"
	"taxonomy-console/infrastructure/session"
	"taxonomy-console/infrastructure/taxonomy"
	appErrors "taxonomy-console/pkg/errors"
)

// cacheCleanupInterval is how often expired read view entries are dropped
const cacheCleanupInterval = time.Minute

// ProvideLogLevel creates the level shared by every logger. Config reloads
// adjust it in place.
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	return zap.NewAtomicLevelAt(parseLevel(cfg.LogLevel))
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = level

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("environment", string(cfg.Environment))), nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// ProvideDomainConfig derives the wizard settings from the service config
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	domainCfg := cfg.DomainConfig()
	if err := domainCfg.Validate(); err != nil {
		return nil, err
	}
	return domainCfg, nil
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.Observability.MetricsNamespace)
}

// ProvideTracing sets up the global tracer provider
func ProvideTracing(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Observability.EnableTracing,
		ServiceName: cfg.Observability.ServiceName,
		Environment: string(cfg.Environment),
		Endpoint:    cfg.Observability.OTLPEndpoint,
		SampleRate:  cfg.Observability.SampleRate,
	})
}

// ProvideTaxonomyClient creates the taxonomy service client
func ProvideTaxonomyClient(cfg *config.Config, collector *observability.Collector, logger *zap.Logger) (ports.TaxonomyClient, error) {
	breaker := cfg.Taxonomy.Breaker
	return taxonomy.NewClient(taxonomy.Config{
		BaseURL:   cfg.Taxonomy.BaseURL,
		TenantID:  cfg.Taxonomy.TenantID,
		AuthToken: cfg.Taxonomy.AuthToken,
		Cookie:    cfg.Taxonomy.Cookie,
		Timeout:   cfg.Taxonomy.Timeout,
		Breaker: taxonomy.BreakerConfig{
			Name:             "taxonomy",
			MaxRequests:      breaker.MaxRequests,
			Interval:         breaker.Interval,
			Timeout:          breaker.Timeout,
			FailureThreshold: breaker.FailureThreshold,
			MinRequests:      breaker.MinRequests,
		},
	}, collector, logger)
}

// ProvideSessionStore creates the in-memory wizard session store
func ProvideSessionStore(domainCfg *domainconfig.DomainConfig, cfg *config.Config, logger *zap.Logger) *session.MemoryStore {
	return session.NewMemoryStore(domainCfg.SessionTTL, cfg.Wizard.SweepInterval, logger)
}

// ProvideReadCache creates the cache in front of the read views
func ProvideReadCache() *cache.InMemoryCache {
	return cache.NewInMemoryCache(cacheCleanupInterval)
}

// ProvideEventPublisher publishes to EventBridge when events are enabled and
// only logs them otherwise
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return messaging.NewLoggingPublisher(logger), nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Events.Region))
	if err != nil {
		return nil, err
	}
	client := awseventbridge.NewFromConfig(awsCfg)
	return eventbridge.NewPublisher(client, cfg.Events.EventBusName, logger), nil
}

// ProvideDraftValidator creates the validator used outside the wizard
func ProvideDraftValidator(domainCfg *domainconfig.DomainConfig) *validators.DraftValidator {
	return validators.NewDraftValidator(domainCfg)
}

// ProvideSubmissionAdapter creates the adapter that turns steps into remote calls
func ProvideSubmissionAdapter(client ports.TaxonomyClient, logger *zap.Logger) *submission.Adapter {
	return submission.NewAdapter(client, logger)
}

// ProvideWizardService creates the wizard service
func ProvideWizardService(
	domainCfg *domainconfig.DomainConfig,
	store *session.MemoryStore,
	adapter *submission.Adapter,
	publisher ports.EventPublisher,
	readCache *cache.InMemoryCache,
	collector *observability.Collector,
	logger *zap.Logger,
) *services.WizardService {
	return services.NewWizardService(domainCfg, store, adapter, publisher, readCache, collector, logger)
}

// ProvideCatalogService creates the read view service
func ProvideCatalogService(
	client ports.TaxonomyClient,
	validator *validators.DraftValidator,
	publisher ports.EventPublisher,
	readCache *cache.InMemoryCache,
	logger *zap.Logger,
) *services.CatalogService {
	return services.NewCatalogService(client, validator, publisher, readCache, logger)
}

// ProvideCommandBus creates the command bus with all handlers registered
func ProvideCommandBus(
	wizard *services.WizardService,
	catalog *services.CatalogService,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger.Sugar()))
	if err := commandhandlers.NewWizardHandlers(wizard).Register(commandBus); err != nil {
		return nil, err
	}
	if err := commandhandlers.NewChannelHandlers(catalog).Register(commandBus); err != nil {
		return nil, err
	}
	return commandBus, nil
}

// ProvideQueryBus creates the query bus. Catalog queries are cached for the
// configured read cache TTL.
func ProvideQueryBus(
	cfg *config.Config,
	wizard *services.WizardService,
	catalog *services.CatalogService,
	readCache *cache.InMemoryCache,
	collector *observability.Collector,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	caching := querybus.NewCachingMiddleware(readCache, int(cfg.Wizard.ReadCacheTTL/time.Second), collector)
	metrics := querybus.NewMetricsMiddleware(collector)

	if err := queryhandlers.NewCatalogHandlers(catalog).Register(queryBus, caching, metrics); err != nil {
		return nil, err
	}
	if err := queryhandlers.NewSessionHandlers(wizard).Register(queryBus, metrics); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler. Internal error
// details are only exposed in development.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *appErrors.ErrorHandler {
	return appErrors.NewErrorHandler(logger, cfg.IsDevelopment())
}
