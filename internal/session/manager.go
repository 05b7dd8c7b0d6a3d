// Package session enforces a bounded sliding window of conversation turns
// per session key on top of an injected turn store.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/tabletalk/rules-qa/internal/domain"
)

// DefaultMaxMessages is the context window bound used when the manager is
// constructed with a non-positive limit.
const DefaultMaxMessages = 8

// Manager maintains per-session conversation windows. It depends only on
// the domain.TurnStore contract, not on which backend is active.
type Manager struct {
	store       domain.TurnStore
	maxMessages int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager over the given store.
func NewManager(store domain.TurnStore, maxMessages int) *Manager {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &Manager{
		store:       store,
		maxMessages: maxMessages,
		locks:       make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing writes for one session key.
// Requests for different keys never contend.
func (m *Manager) sessionLock(sessionKey string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[sessionKey]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionKey] = l
	}
	return l
}

// AppendUserTurn loads the current window, appends the user's message and
// clamps to the window bound. The result is NOT persisted yet: persistence
// happens in AppendAssistantTurn, so a failed generation never leaves an
// orphaned user turn in storage.
func (m *Manager) AppendUserTurn(ctx context.Context, sessionKey, text string) ([]domain.Turn, error) {
	l := m.sessionLock(sessionKey)
	l.Lock()
	defer l.Unlock()

	turns, err := m.store.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	turns = append(turns, domain.Turn{Role: domain.RoleUser, Content: text})
	return m.clamp(turns), nil
}

// AppendAssistantTurn appends the assistant's reply to the provided
// in-memory window, clamps, persists and returns the final sequence.
func (m *Manager) AppendAssistantTurn(ctx context.Context, sessionKey string, turns []domain.Turn, text string) ([]domain.Turn, error) {
	l := m.sessionLock(sessionKey)
	l.Lock()
	defer l.Unlock()

	turns = append(turns, domain.Turn{Role: domain.RoleAssistant, Content: text})
	turns = m.clamp(turns)

	if err := m.store.Set(ctx, sessionKey, turns); err != nil {
		return nil, fmt.Errorf("failed to persist session history: %w", err)
	}

	return turns, nil
}

// History returns the stored window for a session.
func (m *Manager) History(ctx context.Context, sessionKey string) ([]domain.Turn, error) {
	turns, err := m.store.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	return turns, nil
}

// Reset deletes all stored turns for a session.
func (m *Manager) Reset(ctx context.Context, sessionKey string) error {
	l := m.sessionLock(sessionKey)
	l.Lock()
	defer l.Unlock()

	if err := m.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// clamp keeps the most recent maxMessages turns. Applied after every append,
// so a user/assistant pair may straddle the boundary.
func (m *Manager) clamp(turns []domain.Turn) []domain.Turn {
	if len(turns) > m.maxMessages {
		turns = turns[len(turns)-m.maxMessages:]
	}
	return turns
}
