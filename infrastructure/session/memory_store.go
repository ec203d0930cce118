// Package session keeps wizard sessions in process memory.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taxonomy-console/domain/wizard"
	"taxonomy-console/pkg/errors"
)

// MemoryStore holds sessions until they are deleted or sit idle longer than
// the TTL. Expiry is the server-side equivalent of navigating away: the
// draft is dropped without being submitted.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*wizard.Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store and starts its eviction loop. A zero ttl
// disables expiry. Close stops the loop.
func NewMemoryStore(ttl, sweepInterval time.Duration, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	s := &MemoryStore{
		sessions: make(map[string]*wizard.Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go s.evictLoop(sweepInterval)

	return s
}

// Save stores or replaces a session
func (s *MemoryStore) Save(ctx context.Context, session *wizard.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return nil
}

// Get returns a live session
func (s *MemoryStore) Get(ctx context.Context, id string) (*wizard.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.SessionNotFound(id)
	}
	if session.ExpiredAt(s.now(), s.ttl) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, errors.SessionNotFound(id)
	}
	return session, nil
}

// Delete discards a session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Count returns the number of stored sessions
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the eviction loop
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *MemoryStore) evictLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

// evictExpired drops idle sessions and returns how many went
func (s *MemoryStore) evictExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if session.ExpiredAt(now, s.ttl) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("Evicted idle wizard sessions",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(s.sessions)),
		)
	}
	return evicted
}
