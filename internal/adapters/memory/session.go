// Package memory provides an in-process session store for single-replica deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/samirrijal/citytwin/internal/core/analysis"
)

type entry struct {
	state analysis.ScoreState
	seen  time.Time
}

// SessionStore implements ports.SessionStore with a mutex-guarded map.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store. Sessions idle for longer than ttl are forgotten;
// a zero ttl keeps them forever.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Observe records score and seeds the baseline if the session has none.
func (s *SessionStore) Observe(_ context.Context, id string, score int) (analysis.ScoreState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(id)
	e.state = e.state.Observe(score)
	e.seen = s.now()
	s.sessions[id] = e
	return e.state, nil
}

// Get returns the stored state. An unknown session has an empty state.
func (s *SessionStore) Get(_ context.Context, id string) (analysis.ScoreState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id).state, nil
}

// Reset drops the baseline; the current score is kept.
func (s *SessionStore) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	e.state = e.state.Reset()
	s.sessions[id] = e
	return nil
}

// Sweep forgets expired sessions and reports how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id := range s.sessions {
		if s.expired(s.sessions[id]) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

// lookup must be called with mu held.
func (s *SessionStore) lookup(id string) entry {
	e, ok := s.sessions[id]
	if !ok || s.expired(e) {
		return entry{}
	}
	return e
}

func (s *SessionStore) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.seen) > s.ttl
}
