package domain

import "context"

// TurnRole represents the sender of a conversation turn
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// Turn represents a single message in a conversation
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// TurnStore defines the interface for per-session turn storage.
// Get on an unknown session key returns an empty slice, not an error.
type TurnStore interface {
	Get(ctx context.Context, sessionKey string) ([]Turn, error)
	Set(ctx context.Context, sessionKey string, turns []Turn) error
	Delete(ctx context.Context, sessionKey string) error
}
