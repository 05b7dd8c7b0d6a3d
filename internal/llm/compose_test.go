package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/rules-qa/internal/domain"
)

type stubProvider struct {
	text string
	err  error
	// lastPrompt captures what the composer sent
	lastPrompt string
}

func (s *stubProvider) Name() string         { return "stub" }
func (s *stubProvider) DefaultModel() string { return "stub-1" }
func (s *stubProvider) IsConfigured() bool   { return true }
func (s *stubProvider) Generate(ctx context.Context, req Request, model string) (*Response, error) {
	s.lastPrompt = req.Prompt
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Text: s.text}, nil
}

func TestComposer_GenerateAnswerVerbatim(t *testing.T) {
	provider := &stubProvider{text: "  raw model output\n"}
	c := NewComposer(provider, 1)

	chunks := []domain.DocumentChunk{{Text: "a rule", Metadata: map[string]string{"source": "rulebook1"}}}
	answer, err := c.GenerateAnswer(context.Background(), "a question", chunks, nil)
	require.NoError(t, err)

	// No post-processing of the generated text.
	assert.Equal(t, "  raw model output\n", answer)
	assert.Contains(t, provider.lastPrompt, "[Source: rulebook1]")
	assert.Contains(t, provider.lastPrompt, "Question: a question")
}

func TestComposer_WrapsProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("missing credentials")}
	c := NewComposer(provider, 1)

	_, err := c.GenerateReply(context.Background(), []domain.Turn{{Role: domain.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate reply")
	assert.Contains(t, err.Error(), "missing credentials")
}

func TestComposer_CanceledContext(t *testing.T) {
	provider := &stubProvider{text: "never"}
	c := NewComposer(provider, 1)

	// Occupy the only worker slot so the next call has to wait.
	c.slots <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GenerateReply(ctx, []domain.Turn{{Role: domain.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, context.Canceled)
}
