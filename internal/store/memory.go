package store

import (
	"context"
	"sync"

	"github.com/tabletalk/rules-qa/internal/domain"
)

// MemoryStore keeps session turns in a process-local map. Sessions are lost
// on restart; lifecycle is the process lifetime.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

// NewMemoryStore creates an in-memory turn store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]domain.Turn),
	}
}

// Get returns the stored turns for a session, or an empty slice if unknown.
func (s *MemoryStore) Get(ctx context.Context, sessionKey string) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[sessionKey]
	if !ok {
		return []domain.Turn{}, nil
	}

	// Copy so callers cannot mutate stored state
	turns := make([]domain.Turn, len(stored))
	copy(turns, stored)
	return turns, nil
}

// Set stores the full turn list for a session.
func (s *MemoryStore) Set(ctx context.Context, sessionKey string, turns []domain.Turn) error {
	stored := make([]domain.Turn, len(turns))
	copy(stored, turns)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey] = stored
	return nil
}

// Delete removes all stored turns for a session.
func (s *MemoryStore) Delete(ctx context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey)
	return nil
}
