package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"taxonomy-console/application/commands"
	"taxonomy-console/application/commands/bus"
	"taxonomy-console/application/queries"
	querybus "taxonomy-console/application/queries/bus"
	"taxonomy-console/application/services"
	"taxonomy-console/domain/core/entities"
	appErrors "taxonomy-console/pkg/errors"
)

// CatalogHandler serves the read views and the standalone channel page
type CatalogHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *appErrors.ErrorHandler,
	maxBodyBytes int64,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		responder:  newResponder(errorHandler, maxBodyBytes),
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// statusParam reads ?status= either repeated or comma separated
func statusParam(r *http.Request) []string {
	var statuses []string
	for _, raw := range r.URL.Query()["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}
	return statuses
}

// ListFrameworks handles GET /frameworks
func (h *CatalogHandler) ListFrameworks(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListFrameworksQuery{Statuses: statusParam(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, _ := result.([]services.FrameworkSummary)
	h.list(w, r, rows, len(rows))
}

// GetFramework handles GET /frameworks/{frameworkID}
func (h *CatalogHandler) GetFramework(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetFrameworkQuery{Identifier: chi.URLParam(r, "frameworkID")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, result)
}

// ListChannels handles GET /channels?search=&status=
func (h *CatalogHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	query := queries.ListChannelsQuery{
		Search:   r.URL.Query().Get("search"),
		Statuses: statusParam(r),
	}.Normalized()
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, _ := result.([]entities.ChannelRecord)
	h.list(w, r, rows, len(rows))
}

// CreateChannel handles POST /channels
func (h *CatalogHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateChannelCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Channel created from console", zap.String("code", cmd.Code))
	h.ok(w, r, http.StatusCreated, result)
}

// Dashboard handles GET /dashboard
func (h *CatalogHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.DashboardQuery{})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, result)
}
