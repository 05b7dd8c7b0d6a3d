package llm

import (
	"context"
	"fmt"

	"github.com/tabletalk/rules-qa/internal/domain"
)

// DefaultWorkers bounds concurrent generation calls when no limit is
// configured. The call is network-latency-bound, so a small pool keeps
// concurrent requests from piling onto the upstream API.
const DefaultWorkers = 3

// Composer assembles prompts from retrieved passages and conversation
// history and delegates generation to the provider. Generated text is
// returned verbatim, with no post-processing or retries.
type Composer struct {
	provider Provider
	slots    chan struct{}
}

// NewComposer creates a composer with a bounded generation worker pool.
func NewComposer(provider Provider, workers int) *Composer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Composer{
		provider: provider,
		slots:    make(chan struct{}, workers),
	}
}

// GenerateAnswer builds a grounded-answer prompt from the retrieved chunks
// and optional history, and generates the answer.
func (c *Composer) GenerateAnswer(ctx context.Context, question string, chunks []domain.DocumentChunk, history []domain.Turn) (string, error) {
	prompt := BuildAnswerPrompt(question, chunks, history)

	resp, err := c.generate(ctx, Request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to generate grounded answer: %w", err)
	}
	return resp.Text, nil
}

// GenerateReply serializes the conversation window and generates the next
// assistant turn.
func (c *Composer) GenerateReply(ctx context.Context, turns []domain.Turn) (string, error) {
	prompt := BuildChatPrompt(turns)

	resp, err := c.generate(ctx, Request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	return resp.Text, nil
}

// generate runs the provider call on a bounded worker slot so concurrent
// requests queue here instead of blocking each other downstream.
func (c *Composer) generate(ctx context.Context, req Request) (*Response, error) {
	select {
	case c.slots <- struct{}{}:
		defer func() { <-c.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return c.provider.Generate(ctx, req, "")
}
