package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/rules-qa/internal/config"
	"github.com/tabletalk/rules-qa/internal/domain"
	"github.com/tabletalk/rules-qa/internal/llm"
)

func TestRAGService_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRetriever := new(MockRetriever)
		mockProvider := new(MockProvider)
		svc := NewRAGService(mockRetriever, llm.NewComposer(mockProvider, 1), config.IndexConfig{DefaultK: 4})

		chunks := []domain.DocumentChunk{
			{Text: "The first player rolls.", Metadata: map[string]string{"source": "rulebook1"}},
		}
		mockRetriever.On("Init", ctx).Return(nil)
		mockRetriever.On("Search", ctx, "who goes first?", 4).Return(chunks, nil)
		mockProvider.On("Generate", ctx, mock.AnythingOfType("llm.Request"), "").
			Return(&llm.Response{Text: "The first player."}, nil)

		result, err := svc.Query(ctx, "who goes first?", 0)
		require.NoError(t, err)
		assert.Equal(t, "The first player.", result.Answer)
		require.Len(t, result.Sources, 1)
		assert.Equal(t, "rulebook1", result.Sources[0]["source"])

		mockRetriever.AssertExpectations(t)
	})

	t.Run("missing question", func(t *testing.T) {
		svc := NewRAGService(new(MockRetriever), llm.NewComposer(new(MockProvider), 1), config.IndexConfig{})

		_, err := svc.Query(ctx, "", 4)
		assert.Error(t, err)
	})

	t.Run("uninitialized index surfaces sentinel", func(t *testing.T) {
		mockRetriever := new(MockRetriever)
		svc := NewRAGService(mockRetriever, llm.NewComposer(new(MockProvider), 1), config.IndexConfig{DefaultK: 4})

		mockRetriever.On("Init", ctx).Return(nil)
		mockRetriever.On("Search", ctx, "anything", 4).Return(nil, domain.ErrIndexNotInitialized)

		_, err := svc.Query(ctx, "anything", 4)
		assert.ErrorIs(t, err, domain.ErrIndexNotInitialized)
	})
}

func TestRAGService_IngestDocs(t *testing.T) {
	ctx := context.Background()

	t.Run("reads docs directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "chess.txt"), []byte("chess rules"), 0o644))

		mockRetriever := new(MockRetriever)
		svc := NewRAGService(mockRetriever, llm.NewComposer(new(MockProvider), 1), config.IndexConfig{DocsDir: dir})

		mockRetriever.On("Ingest", ctx, []string{"chess rules"},
			[]map[string]string{{"source": "chess.txt"}}).Return(1, nil)

		count, err := svc.IngestDocs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		mockRetriever.AssertExpectations(t)
	})

	t.Run("missing directory is zero-count", func(t *testing.T) {
		mockRetriever := new(MockRetriever)
		svc := NewRAGService(mockRetriever, llm.NewComposer(new(MockProvider), 1),
			config.IndexConfig{DocsDir: filepath.Join(t.TempDir(), "nope")})

		count, err := svc.IngestDocs(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		mockRetriever.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
	})
}
