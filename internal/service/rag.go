package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tabletalk/rules-qa/internal/config"
	"github.com/tabletalk/rules-qa/internal/domain"
	"github.com/tabletalk/rules-qa/internal/index"
	"github.com/tabletalk/rules-qa/internal/llm"
)

// Retriever is the contract the RAG service needs from the vector index.
type Retriever interface {
	Init(ctx context.Context) error
	Ingest(ctx context.Context, texts []string, metadatas []map[string]string) (int, error)
	Search(ctx context.Context, query string, k int) ([]domain.DocumentChunk, error)
	Status(ctx context.Context, forceLoad bool) *index.Status
}

// RAGService answers questions grounded in the ingested reference texts.
type RAGService struct {
	retriever Retriever
	composer  *llm.Composer
	docsDir   string
	defaultK  int
}

// NewRAGService creates a RAG service.
func NewRAGService(retriever Retriever, composer *llm.Composer, cfg config.IndexConfig) *RAGService {
	defaultK := cfg.DefaultK
	if defaultK <= 0 {
		defaultK = 4
	}
	return &RAGService{
		retriever: retriever,
		composer:  composer,
		docsDir:   cfg.DocsDir,
		defaultK:  defaultK,
	}
}

// QueryResult holds a grounded answer and the provenance of the chunks it
// was grounded on.
type QueryResult struct {
	Answer  string              `json:"answer"`
	Sources []map[string]string `json:"docs"`
}

// Query retrieves the k nearest chunks for the question and generates a
// grounded answer. k falls back to the configured default when non-positive.
func (s *RAGService) Query(ctx context.Context, question string, k int) (*QueryResult, error) {
	if question == "" {
		return nil, fmt.Errorf("missing question")
	}
	if k <= 0 {
		k = s.defaultK
	}

	if err := s.retriever.Init(ctx); err != nil {
		return nil, fmt.Errorf("index initialization failed: %w", err)
	}

	chunks, err := s.retriever.Search(ctx, question, k)
	if err != nil {
		return nil, err
	}

	answer, err := s.composer.GenerateAnswer(ctx, question, chunks, nil)
	if err != nil {
		return nil, err
	}

	sources := make([]map[string]string, len(chunks))
	for i, c := range chunks {
		sources[i] = c.Metadata
	}

	return &QueryResult{Answer: answer, Sources: sources}, nil
}

// IngestDocs loads every readable file from the configured docs directory
// and ingests it as one chunk, labeled with the file name as its source.
func (s *RAGService) IngestDocs(ctx context.Context) (int, error) {
	texts, metadatas, err := loadDocs(s.docsDir)
	if err != nil {
		return 0, err
	}
	if len(texts) == 0 {
		log.Warn().Str("dir", s.docsDir).Msg("No documents found to ingest")
		return 0, nil
	}

	return s.retriever.Ingest(ctx, texts, metadatas)
}

// IngestTexts ingests raw texts with optional metadata.
func (s *RAGService) IngestTexts(ctx context.Context, texts []string, metadatas []map[string]string) (int, error) {
	return s.retriever.Ingest(ctx, texts, metadatas)
}

// Status reports the persisted index state.
func (s *RAGService) Status(ctx context.Context, forceLoad bool) *index.Status {
	return s.retriever.Status(ctx, forceLoad)
}

// loadDocs reads every regular file in dir. Unreadable files are skipped.
func loadDocs(dir string) ([]string, []map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read docs directory: %w", err)
	}

	var texts []string
	var metadatas []map[string]string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("Skipping unreadable document")
			continue
		}
		texts = append(texts, string(content))
		metadatas = append(metadatas, map[string]string{"source": e.Name()})
	}

	return texts, metadatas, nil
}
