package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/rules-qa/internal/domain"
	"github.com/tabletalk/rules-qa/internal/store"
)

func TestManager_AppendScenario(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), 8)
	ctx := context.Background()

	// Seed: [user:"hi", assistant:"hello"]
	window, err := m.AppendUserTurn(ctx, "s1", "hi")
	require.NoError(t, err)
	_, err = m.AppendAssistantTurn(ctx, "s1", window, "hello")
	require.NoError(t, err)

	window, err = m.AppendUserTurn(ctx, "s1", "rules?")
	require.NoError(t, err)
	final, err := m.AppendAssistantTurn(ctx, "s1", window, "core rule is X")
	require.NoError(t, err)

	expected := []domain.Turn{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
		{Role: domain.RoleUser, Content: "rules?"},
		{Role: domain.RoleAssistant, Content: "core rule is X"},
	}
	assert.Equal(t, expected, final)

	history, err := m.History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, expected, history)
}

func TestManager_WindowBound(t *testing.T) {
	const maxMessages = 8
	m := NewManager(store.NewMemoryStore(), maxMessages)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		window, err := m.AppendUserTurn(ctx, "s1", fmt.Sprintf("q%d", i))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(window), maxMessages)

		persisted, err := m.AppendAssistantTurn(ctx, "s1", window, fmt.Sprintf("a%d", i))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(persisted), maxMessages)
	}

	history, err := m.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, maxMessages)

	// The window holds the most recent turns in append order.
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "q26"}, history[0])
	assert.Equal(t, domain.Turn{Role: domain.RoleAssistant, Content: "a29"}, history[maxMessages-1])
}

func TestManager_TruncationPerAppend(t *testing.T) {
	// With an odd window size, a user/assistant pair may straddle the
	// boundary: the oldest half-pair is dropped first.
	m := NewManager(store.NewMemoryStore(), 3)
	ctx := context.Background()

	window, err := m.AppendUserTurn(ctx, "s1", "q0")
	require.NoError(t, err)
	_, err = m.AppendAssistantTurn(ctx, "s1", window, "a0")
	require.NoError(t, err)

	window, err = m.AppendUserTurn(ctx, "s1", "q1")
	require.NoError(t, err)
	final, err := m.AppendAssistantTurn(ctx, "s1", window, "a1")
	require.NoError(t, err)

	expected := []domain.Turn{
		{Role: domain.RoleAssistant, Content: "a0"},
		{Role: domain.RoleUser, Content: "q1"},
		{Role: domain.RoleAssistant, Content: "a1"},
	}
	assert.Equal(t, expected, final)
}

func TestManager_UserTurnNotPersistedAlone(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), 8)
	ctx := context.Background()

	window, err := m.AppendUserTurn(ctx, "s1", "hi")
	require.NoError(t, err)
	require.Len(t, window, 1)

	// Until the assistant turn lands, storage stays untouched.
	history, err := m.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestManager_Reset(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), 8)
	ctx := context.Background()

	window, err := m.AppendUserTurn(ctx, "s1", "hi")
	require.NoError(t, err)
	_, err = m.AppendAssistantTurn(ctx, "s1", window, "hello")
	require.NoError(t, err)

	require.NoError(t, m.Reset(ctx, "s1"))

	history, err := m.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := NewManager(store.NewMemoryStore(), 8)
	ctx := context.Background()

	window, err := m.AppendUserTurn(ctx, "s1", "about chess")
	require.NoError(t, err)
	_, err = m.AppendAssistantTurn(ctx, "s1", window, "chess answer")
	require.NoError(t, err)

	history, err := m.History(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, history)
}
