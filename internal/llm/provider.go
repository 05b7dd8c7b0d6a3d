package llm

import "context"

// Request contains text generation parameters
type Request struct {
	Prompt string
	// SystemInstruction steers the model persona; empty uses the provider default
	SystemInstruction string
}

// Response contains the generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for generation backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces text for the given prompt
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}

// Embedder defines the interface for embedding backends. Implementations
// must be deterministic for identical input and model configuration.
type Embedder interface {
	// EmbedDocuments embeds a batch of texts, one vector per text
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query text
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
