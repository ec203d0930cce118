package wizard

import (
	"sync"
	"time"

	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/events"
	"taxonomy-console/pkg/errors"
)

// Session is one run of the creation wizard: the committed draft, the step
// counter and the association editor state. A session is guarded by its own
// mutex; while a remote submission runs it is marked busy and rejects
// every other change.
type Session struct {
	mu           sync.Mutex
	id           string
	draft        *aggregates.Draft
	controller   *Controller
	associations *AssociationState
	busy         bool
	lastError    error
	createdAt    time.Time
	lastAccess   time.Time
	cfg          *config.DomainConfig
}

// NewSession starts a session on step 1 with a fresh draft
func NewSession(cfg *config.DomainConfig) *Session {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	draft := aggregates.NewDraft(cfg)
	now := time.Now()
	return &Session{
		id:           draft.ID().String(),
		draft:        draft,
		controller:   NewController(),
		associations: NewAssociationState(),
		createdAt:    now,
		lastAccess:   now,
		cfg:          cfg,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was started
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastAccess returns when the session was last touched
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// State is a consistent, copied view of a session
type State struct {
	Draft        *aggregates.Draft
	Step         Step
	Associations *AssociationState
	Busy         bool
	LastError    error
}

// Read returns a copy of the session state; it never blocks on a running submission
func (s *Session) Read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	return State{
		Draft:        s.draft.Clone(),
		Step:         s.controller.Step(),
		Associations: s.associations.Clone(),
		Busy:         s.busy,
		LastError:    s.lastError,
	}
}

// Mutate applies fn to the committed draft, the controller and the
// association state. It fails with SESSION_BUSY while a submission runs.
func (s *Session) Mutate(fn func(draft *aggregates.Draft, controller *Controller, associations *AssociationState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return errors.SessionBusy(s.id)
	}
	s.lastAccess = time.Now()
	return fn(s.draft, s.controller, s.associations)
}

// Submission is a staging copy of the draft taken for one step's remote calls
type Submission struct {
	Step    Step
	Staging *aggregates.Draft
}

// BeginSubmission checks the step gate, marks the session busy and returns a
// staging clone of the draft. Every successful call must be paired with
// CompleteSubmission.
func (s *Session) BeginSubmission() (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, errors.SessionBusy(s.id)
	}
	s.lastAccess = time.Now()
	if err := s.controller.CheckGate(s.draft); err != nil {
		return nil, err
	}
	s.busy = true
	return &Submission{
		Step:    s.controller.Step(),
		Staging: s.draft.Clone(),
	}, nil
}

// CompleteSubmission clears the busy flag. On failure the committed draft and
// step stay as they were and the error is remembered. On success the staging
// draft is committed and the wizard moves to the next step; completing the
// last step starts over with a fresh draft. The events recorded on the
// staging draft are returned and marked committed.
func (s *Session) CompleteSubmission(sub *Submission, submitErr error) []events.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.lastAccess = time.Now()

	if submitErr != nil {
		s.lastError = submitErr
		return nil
	}

	s.lastError = nil
	committed := sub.Staging
	pending := committed.GetUncommittedEvents()
	committed.MarkEventsAsCommitted()

	if sub.Step.IsLast() {
		s.draft = aggregates.NewDraft(s.cfg)
		s.controller.Reset()
		s.associations.Reset()
		return pending
	}

	s.draft = committed
	_ = s.controller.Advance()
	return pending
}

// DrainEvents returns and clears the committed draft's pending events
func (s *Session) DrainEvents() []events.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.draft.GetUncommittedEvents()
	s.draft.MarkEventsAsCommitted()
	return pending
}

// Retreat moves back one step and clears the last error
func (s *Session) Retreat() error {
	return s.Mutate(func(_ *aggregates.Draft, c *Controller, _ *AssociationState) error {
		if err := c.Retreat(); err != nil {
			return err
		}
		s.lastError = nil
		return nil
	})
}

// IsBusy reports whether a submission is running
func (s *Session) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// ExpiredAt reports whether the session was idle for longer than ttl at now.
// Busy sessions never expire.
func (s *Session) ExpiredAt(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && ttl > 0 && now.Sub(s.lastAccess) > ttl
}
