package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"taxonomy-console/application/commands"
	"taxonomy-console/application/commands/bus"
	"taxonomy-console/application/queries"
	querybus "taxonomy-console/application/queries/bus"
	"taxonomy-console/domain/config"
	"taxonomy-console/pkg/common"
	appErrors "taxonomy-console/pkg/errors"
)

// WizardHandler handles the framework authoring wizard endpoints. Every
// successful mutation answers with the session snapshot.
type WizardHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *appErrors.ErrorHandler,
	maxBodyBytes int64,
	logger *zap.Logger,
) *WizardHandler {
	return &WizardHandler{
		responder:  newResponder(errorHandler, maxBodyBytes),
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// Routes mounts the wizard endpoints
func (h *WizardHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Use(withSessionID)
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Put("/channel", h.SetChannel)
		r.Patch("/framework", h.UpdateFramework)
		r.Post("/categories", h.AddCategory)
		r.Get("/categories/defaults", h.AvailableDefaults)
		r.Post("/categories/defaults", h.AddDefaultCategory)
		r.Delete("/categories/{index}", h.RemoveCategory)
		r.Post("/categories/{index}/terms", h.AddTerm)
		r.Put("/associations/selection", h.SelectAssociationSource)
		r.Post("/associations/toggle", h.ToggleAssociation)
		r.Post("/associations/save", h.SaveAssociations)
		r.Post("/advance", h.Advance)
		r.Post("/retreat", h.Retreat)
	})
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// withSessionID puts the path session ID on the context for command logging
func withSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := common.WithSessionID(r.Context(), sessionID(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// send dispatches a command and renders its result
func (h *WizardHandler) send(w http.ResponseWriter, r *http.Request, status int, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, status, result)
}

// CreateSession handles POST /wizard/sessions
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusCreated, commands.StartSessionCommand{})
}

// GetSession handles GET /wizard/sessions/{sessionID}
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetSessionQuery{SessionID: sessionID(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, result)
}

// DeleteSession handles DELETE /wizard/sessions/{sessionID}
func (h *WizardHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, err := h.commandBus.Send(r.Context(), commands.DeleteSessionCommand{SessionID: sessionID(r)}); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetChannel handles PUT /wizard/sessions/{sessionID}/channel
func (h *WizardHandler) SetChannel(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SetChannelCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	cmd.SessionID = sessionID(r)
	h.send(w, r, http.StatusOK, cmd)
}

// UpdateFramework handles PATCH /wizard/sessions/{sessionID}/framework
func (h *WizardHandler) UpdateFramework(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateFrameworkCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	cmd.SessionID = sessionID(r)
	h.send(w, r, http.StatusOK, cmd)
}

// AddCategory handles POST /wizard/sessions/{sessionID}/categories
func (h *WizardHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddCategoryCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	cmd.SessionID = sessionID(r)
	h.send(w, r, http.StatusCreated, cmd)
}

// AvailableDefaults handles GET /wizard/sessions/{sessionID}/categories/defaults
func (h *WizardHandler) AvailableDefaults(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.AvailableDefaultsQuery{SessionID: sessionID(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defaults, _ := result.([]config.CategoryTemplate)
	h.list(w, r, defaults, len(defaults))
}

// AddDefaultCategory handles POST /wizard/sessions/{sessionID}/categories/defaults
func (h *WizardHandler) AddDefaultCategory(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddDefaultCategoryCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	cmd.SessionID = sessionID(r)
	h.send(w, r, http.StatusCreated, cmd)
}

// RemoveCategory handles DELETE /wizard/sessions/{sessionID}/categories/{index}
func (h *WizardHandler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.RemoveCategoryCommand{SessionID: sessionID(r), Index: index})
}

// AddTerm handles POST /wizard/sessions/{sessionID}/categories/{index}/terms
func (h *WizardHandler) AddTerm(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var cmd commands.AddTermCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	cmd.SessionID = sessionID(r)
	cmd.CategoryIndex = index
	h.send(w, r, http.StatusCreated, cmd)
}

// SelectAssociationSource handles PUT /wizard/sessions/{sessionID}/associations/selection
func (h *WizardHandler) SelectAssociationSource(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SelectAssociationSourceCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	cmd.SessionID = sessionID(r)
	h.send(w, r, http.StatusOK, cmd)
}

// ToggleAssociation handles POST /wizard/sessions/{sessionID}/associations/toggle
func (h *WizardHandler) ToggleAssociation(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ToggleAssociationCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.fail(w, r, err)
		return
	}
	cmd.SessionID = sessionID(r)
	h.send(w, r, http.StatusOK, cmd)
}

// SaveAssociations handles POST /wizard/sessions/{sessionID}/associations/save
func (h *WizardHandler) SaveAssociations(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.SaveAssociationsCommand{SessionID: sessionID(r)})
}

// Advance handles POST /wizard/sessions/{sessionID}/advance
func (h *WizardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	cmd := commands.AdvanceCommand{SessionID: sessionID(r)}
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.logger.Info("Wizard step not advanced",
			zap.String("sessionID", cmd.SessionID),
			zap.Error(err),
		)
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, result)
}

// Retreat handles POST /wizard/sessions/{sessionID}/retreat
func (h *WizardHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.RetreatCommand{SessionID: sessionID(r)})
}
