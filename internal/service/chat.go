package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tabletalk/rules-qa/internal/domain"
	"github.com/tabletalk/rules-qa/internal/llm"
)

// SessionManager is the contract the chat service needs from the session
// context layer.
type SessionManager interface {
	AppendUserTurn(ctx context.Context, sessionKey, text string) ([]domain.Turn, error)
	AppendAssistantTurn(ctx context.Context, sessionKey string, turns []domain.Turn, text string) ([]domain.Turn, error)
	History(ctx context.Context, sessionKey string) ([]domain.Turn, error)
	Reset(ctx context.Context, sessionKey string) error
}

// ChatService handles conversational exchanges with per-session context.
type ChatService struct {
	sessions SessionManager
	composer *llm.Composer
}

// NewChatService creates a chat service.
func NewChatService(sessions SessionManager, composer *llm.Composer) *ChatService {
	return &ChatService{
		sessions: sessions,
		composer: composer,
	}
}

// ChatResult is one completed conversational exchange.
type ChatResult struct {
	SessionKey string        `json:"session_id"`
	Reply      string        `json:"reply"`
	Turns      []domain.Turn `json:"messages"`
}

// Ask appends the user's message to the session window, generates a reply
// from the windowed conversation and persists the completed exchange. A new
// session key is minted when none is given. If generation fails nothing is
// persisted, so history never ends up with a user turn the backend answered.
func (s *ChatService) Ask(ctx context.Context, sessionKey, text string) (*ChatResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty message")
	}

	if sessionKey == "" {
		sessionKey = uuid.New().String()
	}

	window, err := s.sessions.AppendUserTurn(ctx, sessionKey, text)
	if err != nil {
		return nil, err
	}

	reply, err := s.composer.GenerateReply(ctx, window)
	if err != nil {
		return nil, err
	}

	turns, err := s.sessions.AppendAssistantTurn(ctx, sessionKey, window, reply)
	if err != nil {
		return nil, err
	}

	return &ChatResult{
		SessionKey: sessionKey,
		Reply:      reply,
		Turns:      turns,
	}, nil
}

// History returns the stored conversation window for a session.
func (s *ChatService) History(ctx context.Context, sessionKey string) ([]domain.Turn, error) {
	return s.sessions.History(ctx, sessionKey)
}

// Reset clears all stored turns for a session.
func (s *ChatService) Reset(ctx context.Context, sessionKey string) error {
	return s.sessions.Reset(ctx, sessionKey)
}
