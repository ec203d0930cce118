package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taxonomy-console/application/editors"
	"taxonomy-console/application/ports"
	"taxonomy-console/application/submission"
	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
	"taxonomy-console/domain/core/valueobjects"
	"taxonomy-console/domain/events"
	"taxonomy-console/domain/wizard"
)

// Snapshot is everything the console needs to render the current wizard page
type Snapshot struct {
	SessionID         string                    `json:"sessionId"`
	Step              wizard.StepInfo           `json:"step"`
	Steps             []wizard.StepInfo         `json:"steps"`
	CanAdvance        bool                      `json:"canAdvance"`
	CanRetreat        bool                      `json:"canRetreat"`
	Busy              bool                      `json:"busy"`
	LastError         string                    `json:"lastError,omitempty"`
	Draft             aggregates.DraftView      `json:"draft"`
	Summary           aggregates.Summary        `json:"summary"`
	Associations      *wizard.AssociationState  `json:"associations"`
	Candidates        []editors.Candidate       `json:"candidates"`
	AvailableDefaults []config.CategoryTemplate `json:"availableDefaults"`
}

// editorSet is the group of editors built from one domain configuration
type editorSet struct {
	cfg          *config.DomainConfig
	framework    *editors.FrameworkEditor
	categories   *editors.CategoryEditor
	terms        *editors.TermEditor
	associations *editors.AssociationEditor
}

func newEditorSet(cfg *config.DomainConfig) *editorSet {
	v := validators.NewDraftValidator(cfg)
	return &editorSet{
		cfg:          cfg,
		framework:    editors.NewFrameworkEditor(v),
		categories:   editors.NewCategoryEditor(v, cfg),
		terms:        editors.NewTermEditor(v),
		associations: editors.NewAssociationEditor(v),
	}
}

// WizardService runs framework creation wizards. Each session holds its own
// draft; the remote calls of a step run against a staging copy that is only
// committed when every call succeeded.
type WizardService struct {
	store     ports.SessionStore
	adapter   *submission.Adapter
	publisher ports.EventPublisher
	cache     ports.Cache
	metrics   ports.WizardMetrics
	logger    *zap.Logger

	mu      sync.RWMutex
	editors *editorSet
}

// NewWizardService creates a new wizard service
func NewWizardService(
	cfg *config.DomainConfig,
	store ports.SessionStore,
	adapter *submission.Adapter,
	publisher ports.EventPublisher,
	cache ports.Cache,
	metrics ports.WizardMetrics,
	logger *zap.Logger,
) *WizardService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		store:     store,
		adapter:   adapter,
		publisher: publisher,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		editors:   newEditorSet(cfg),
	}
}

// UpdateDomainConfig swaps the limits and defaults used by later operations.
// Sessions keep the default channel they were started with.
func (s *WizardService) UpdateDomainConfig(cfg *config.DomainConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.editors = newEditorSet(cfg)
	s.mu.Unlock()
	s.logger.Info("Wizard configuration updated",
		zap.String("defaultChannel", cfg.DefaultChannelIdentifier),
		zap.Int("defaultCategories", len(cfg.DefaultCategories)),
	)
	return nil
}

func (s *WizardService) currentEditors() *editorSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editors
}

// CreateSession starts a wizard on step 1 with an empty draft
func (s *WizardService) CreateSession(ctx context.Context) (*Snapshot, error) {
	set := s.currentEditors()
	session := wizard.NewSession(set.cfg)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.publish(ctx, session.DrainEvents())
	s.reportSessions(ctx)

	s.logger.Info("Wizard session started", zap.String("sessionID", session.ID()))
	return s.snapshot(session, set), nil
}

// GetSession returns the current state of a session
func (s *WizardService) GetSession(ctx context.Context, sessionID string) (*Snapshot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(session, s.currentEditors()), nil
}

// DeleteSession discards a session and its unsaved draft
func (s *WizardService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.reportSessions(ctx)
	return nil
}

// SetChannel records the channel entered on step 1
func (s *WizardService) SetChannel(ctx context.Context, sessionID string, channel entities.Channel) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, _ *wizard.AssociationState) error {
		return set.framework.SetChannel(draft, channel)
	})
}

// UpdateFramework merges the framework fields entered on step 2
func (s *WizardService) UpdateFramework(ctx context.Context, sessionID string, patch entities.FrameworkPatch) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, _ *wizard.AssociationState) error {
		return set.framework.UpdateFramework(draft, patch)
	})
}

// AddCategory appends a category to the draft
func (s *WizardService) AddCategory(ctx context.Context, sessionID string, category entities.Category) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, _ *wizard.AssociationState) error {
		_, err := set.categories.Add(draft, category)
		return err
	})
}

// AddDefaultCategory appends one of the predefined categories by code
func (s *WizardService) AddDefaultCategory(ctx context.Context, sessionID string, code string) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, _ *wizard.AssociationState) error {
		_, err := set.categories.AddDefault(draft, code)
		return err
	})
}

// AvailableDefaults lists the predefined categories not yet in the draft
func (s *WizardService) AvailableDefaults(ctx context.Context, sessionID string) ([]config.CategoryTemplate, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.currentEditors().categories.AvailableDefaults(session.Read().Draft), nil
}

// RemoveCategory deletes a category. Category indexes shift, so the
// association editor selection is cleared.
func (s *WizardService) RemoveCategory(ctx context.Context, sessionID string, index int) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, state *wizard.AssociationState) error {
		if _, err := set.categories.Remove(draft, index); err != nil {
			return err
		}
		state.Reset()
		return nil
	})
}

// AddTerm appends a term to the category at categoryIndex
func (s *WizardService) AddTerm(ctx context.Context, sessionID string, categoryIndex int, term entities.Term) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, _ *wizard.AssociationState) error {
		return set.terms.Add(draft, categoryIndex, term)
	})
}

// SelectAssociationSource picks the source category and, optionally, the
// source term of the association editor. A rejected selection leaves the
// previous selection and buffer in place.
func (s *WizardService) SelectAssociationSource(ctx context.Context, sessionID string, categoryIndex int, termIndex *int) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, state *wizard.AssociationState) error {
		next := state.Clone()
		if err := set.associations.SelectCategory(draft, next, categoryIndex); err != nil {
			return err
		}
		if termIndex != nil {
			if err := set.associations.SelectTerm(draft, next, *termIndex); err != nil {
				return err
			}
		}
		*state = *next
		return nil
	})
}

// ToggleAssociation flips one candidate in the unsaved association buffer
func (s *WizardService) ToggleAssociation(ctx context.Context, sessionID string, key valueobjects.AssociationKey) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, state *wizard.AssociationState) error {
		_, err := set.associations.Toggle(draft, state, key)
		return err
	})
}

// SaveAssociations replaces the source term's associations with the buffer
func (s *WizardService) SaveAssociations(ctx context.Context, sessionID string) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, func(set *editorSet, draft *aggregates.Draft, _ *wizard.Controller, state *wizard.AssociationState) error {
		return set.associations.Save(draft, state)
	})
}

// Retreat moves back one step
func (s *WizardService) Retreat(ctx context.Context, sessionID string) (*Snapshot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Retreat(); err != nil {
		return nil, err
	}
	return s.snapshot(session, s.currentEditors()), nil
}

// Advance submits the current step and moves to the next one. The remote
// calls run against a staging copy of the draft while the session is busy.
// On failure the committed draft and the step are unchanged and the error
// is kept on the session. Completing the publish step starts a new draft.
func (s *WizardService) Advance(ctx context.Context, sessionID string) (*Snapshot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sub, err := session.BeginSubmission()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	// A submission runs to completion even if the caller goes away
	submitErr := s.adapter.Submit(context.WithoutCancel(ctx), sub.Step, sub.Staging)
	pending := session.CompleteSubmission(sub, submitErr)
	duration := time.Since(start)

	logger := s.logger.With(
		zap.String("sessionID", sessionID),
		zap.String("step", sub.Step.Title()),
		zap.Duration("duration", duration),
	)
	if submitErr != nil {
		s.recordAdvance(sub.Step, "failure", duration)
		logger.Warn("Wizard step submission failed", zap.Error(submitErr))
		return nil, submitErr
	}
	s.recordAdvance(sub.Step, "success", duration)
	logger.Info("Wizard step submitted")

	s.publish(ctx, pending)
	if remoteStep(sub.Step) {
		s.invalidateReadViews(ctx)
	}
	return s.snapshot(session, s.currentEditors()), nil
}

// mutate loads a session and applies fn to its committed state
func (s *WizardService) mutate(
	ctx context.Context,
	sessionID string,
	fn func(set *editorSet, draft *aggregates.Draft, controller *wizard.Controller, state *wizard.AssociationState) error,
) (*Snapshot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	set := s.currentEditors()
	err = session.Mutate(func(draft *aggregates.Draft, controller *wizard.Controller, state *wizard.AssociationState) error {
		return fn(set, draft, controller, state)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, session.DrainEvents())
	return s.snapshot(session, set), nil
}

func (s *WizardService) snapshot(session *wizard.Session, set *editorSet) *Snapshot {
	state := session.Read()

	snap := &Snapshot{
		SessionID:         session.ID(),
		Step:              wizard.StepInfo{Number: int(state.Step), Title: state.Step.Title()},
		Steps:             wizard.Steps(),
		CanAdvance:        !state.Busy,
		CanRetreat:        !state.Busy && state.Step > wizard.StepChannel,
		Busy:              state.Busy,
		Draft:             state.Draft.View(),
		Summary:           state.Draft.Summary(),
		Associations:      state.Associations,
		Candidates:        set.associations.Candidates(state.Draft, state.Associations),
		AvailableDefaults: set.categories.AvailableDefaults(state.Draft),
	}
	if state.LastError != nil {
		snap.LastError = state.LastError.Error()
	}
	return snap
}

// remoteStep reports whether submitting step changes the taxonomy service
func remoteStep(step wizard.Step) bool {
	switch step {
	case wizard.StepFramework, wizard.StepCategories, wizard.StepPublish:
		return true
	}
	return false
}

func (s *WizardService) publish(ctx context.Context, pending []events.DomainEvent) {
	if len(pending) == 0 || s.publisher == nil {
		return
	}
	// The wizard never fails because an event could not be delivered
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish wizard events",
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
	}
}

func (s *WizardService) invalidateReadViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("Failed to clear read view cache", zap.Error(err))
	}
}

func (s *WizardService) recordAdvance(step wizard.Step, outcome string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordAdvance(step.Title(), outcome, duration)
	}
}

func (s *WizardService) reportSessions(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.SetActiveSessions(s.store.Count(ctx))
	}
}
