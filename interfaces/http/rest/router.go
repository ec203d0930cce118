package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"taxonomy-console/application/commands/bus"
	querybus "taxonomy-console/application/queries/bus"
	"taxonomy-console/infrastructure/config"
	"taxonomy-console/infrastructure/observability"
	"taxonomy-console/interfaces/http/rest/handlers"
	"taxonomy-console/interfaces/http/rest/middleware"
	"taxonomy-console/pkg/common"
	appErrors "taxonomy-console/pkg/errors"
)

// HealthReporter reports the state of the service's components
type HealthReporter interface {
	Health(ctx context.Context) map[string]string
}

// Router creates and configures the HTTP router
type Router struct {
	cfg          *config.Config
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *appErrors.ErrorHandler
	collector    *observability.Collector
	health       HealthReporter
	logger       *zap.Logger
}

// NewRouter creates a new router instance. collector and health may be nil.
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *appErrors.ErrorHandler,
	collector *observability.Collector,
	health HealthReporter,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:          cfg,
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		collector:    collector,
		health:       health,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.Observability.EnableTracing {
		router.Use(observability.TracingMiddleware(rt.cfg.Observability.ServiceName))
	}
	if rt.collector != nil && rt.cfg.Observability.EnableMetrics {
		router.Use(observability.MetricsMiddleware(rt.collector))
	}
	router.Use(versionMiddleware)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           rt.cfg.CORS.MaxAge,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil && rt.cfg.Observability.EnableMetrics {
		router.Handle("/metrics", rt.collector.Handler())
	}

	maxBody := rt.cfg.Server.MaxRequestSize
	wizardHandler := handlers.NewWizardHandler(rt.commandBus, rt.queryBus, rt.errorHandler, maxBody, rt.logger)
	catalogHandler := handlers.NewCatalogHandler(rt.commandBus, rt.queryBus, rt.errorHandler, maxBody, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/wizard/sessions", wizardHandler.Routes)

		r.Get("/frameworks", catalogHandler.ListFrameworks)
		r.Get("/frameworks/{frameworkID}", catalogHandler.GetFramework)
		r.Get("/channels", catalogHandler.ListChannels)
		r.Post("/channels", catalogHandler.CreateChannel)
		r.Get("/dashboard", catalogHandler.Dashboard)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports the component states. The service holds no
// connections, so it is ready once it is wired.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	status := map[string]string{"status": "ready"}
	if rt.health != nil {
		for k, v := range rt.health.Health(req.Context()) {
			status[k] = v
		}
	}
	common.RespondJSON(w, http.StatusOK, status)
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		next.ServeHTTP(w, r)
	})
}
