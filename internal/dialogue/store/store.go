// internal/dialogue/store/store.go

// Package store keeps per-conversation session state in memory for the
// lifetime of the process. Each session id owns its own lock, so the whole
// fetch->mutate->append sequence for one conversation is serialized while
// different conversations never contend.
package store

import (
	"sync"
	"time"

	"understander/internal/common/logger"
	"understander/internal/models"
)

// Store is the shared session registry. Entries are never removed: an
// expired session is replaced in place by a fresh one under the same id.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	timeout time.Duration
	logger  logger.Logger
}

type entry struct {
	mu      sync.Mutex
	session *models.Session
}

// New creates a store whose sessions expire after the inactivity timeout.
func New(timeout time.Duration, log logger.Logger) *Store {
	return &Store{
		entries: make(map[string]*entry),
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "session-store"}),
	}
}

func (s *Store) getEntry(id string) *entry {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[id]; ok {
		return e
	}
	e = &entry{session: models.NewSession(id)}
	s.entries[e.session.ID] = e
	return e
}

// Update runs fn with the session for id under its lock, creating a session
// when the id is empty or unknown and replacing it when it has expired. The
// external session id is returned.
func (s *Store) Update(id string, fn func(*models.Session)) string {
	e := s.getEntry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.IsExpired(s.timeout) {
		s.logger.Info("session expired, starting fresh", map[string]interface{}{
			"sessionId": e.session.ID,
		})
		e.session = models.NewSession(e.session.ID)
	}
	fn(e.session)
	return e.session.ID
}

// View runs fn with the session for id under its lock, without creating one.
// It returns false when the id has never been seen. An expired session is
// replaced before fn runs, matching the fetch semantics of Update.
func (s *Store) View(id string, fn func(*models.Session)) bool {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.IsExpired(s.timeout) {
		e.session = models.NewSession(e.session.ID)
	}
	fn(e.session)
	return true
}

// Reset discards the state stored under id and replaces it with a brand new
// session. The replacement carries a freshly generated internal id while
// remaining reachable under the caller's old id; callers should switch to
// the returned id.
func (s *Store) Reset(id string) string {
	e := s.getEntry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	fresh := models.NewSession("")
	e.session = fresh
	s.logger.Info("session reset", map[string]interface{}{
		"oldSessionId": id,
		"newSessionId": fresh.ID,
	})
	return fresh.ID
}

// Len reports how many session slots exist (live and logically dead alike).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
