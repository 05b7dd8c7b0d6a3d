package index

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tabletalk/rules-qa/internal/config"
	"github.com/tabletalk/rules-qa/internal/domain"
	"github.com/tabletalk/rules-qa/internal/llm"
)

// Service manages the vector index: ingestion (embed, add, persist) and
// retrieval (embed query, top-k cosine search). Ingestion is single-writer;
// searches during an ingest read the previous snapshot.
type Service struct {
	embedder    llm.Embedder
	persistPath string

	mu     sync.Mutex
	loaded bool
	idx    *memoryIndex
}

// NewService creates a vector index service persisting under cfg.Path.
func NewService(embedder llm.Embedder, cfg config.IndexConfig) *Service {
	return &Service{
		embedder:    embedder,
		persistPath: cfg.Path,
	}
}

// Init loads a persisted index from disk if one exists and none is loaded
// yet. It is idempotent: repeat calls after a successful load are cheap
// no-ops. Without a persisted index the service stays uninitialized until
// the first ingestion.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked()
}

func (s *Service) initLocked() error {
	if s.loaded {
		return nil
	}

	if Exists(s.persistPath) {
		ix, err := load(s.persistPath)
		if err != nil {
			return fmt.Errorf("failed to load persisted index: %w", err)
		}
		s.idx = ix
		log.Info().Str("path", s.persistPath).Int("chunks", ix.size()).Msg("Loaded persisted vector index")
	}

	s.loaded = true
	return nil
}

// Ingest embeds the given texts, adds them to the index (creating it if
// absent) and synchronously persists the whole index. Empty input is a
// zero-effect success. Missing metadata gets a default per-item source
// label. Ingestion is additive only.
func (s *Service) Ingest(ctx context.Context, texts []string, metadatas []map[string]string) (int, error) {
	if len(texts) == 0 {
		return 0, nil
	}

	if metadatas == nil {
		metadatas = make([]map[string]string, len(texts))
		for i := range texts {
			metadatas[i] = map[string]string{"source": fmt.Sprintf("doc_%d", i)}
		}
	}
	if len(metadatas) != len(texts) {
		return 0, fmt.Errorf("got %d texts but %d metadatas", len(texts), len(metadatas))
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	added := make([]entry, len(texts))
	for i, text := range texts {
		added[i] = entry{
			chunk:  domain.DocumentChunk{Text: text, Metadata: metadatas[i]},
			vector: vectors[i],
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return 0, err
	}

	base := s.idx
	if base == nil {
		base = newMemoryIndex(nil)
	}
	next := base.withAdded(added)

	// The in-memory index and the on-disk copy must not diverge after a
	// successful ingest: persist before publishing the new snapshot.
	if err := save(s.persistPath, next); err != nil {
		return 0, fmt.Errorf("failed to persist index: %w", err)
	}
	s.idx = next

	log.Info().Int("added", len(added)).Int("total", next.size()).Msg("Ingested documents into vector index")
	return len(added), nil
}

// Search embeds the query and returns up to k chunks, nearest first. It
// returns domain.ErrIndexNotInitialized when no index has been created or
// loaded.
func (s *Service) Search(ctx context.Context, query string, k int) ([]domain.DocumentChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	s.mu.Lock()
	ix := s.idx
	s.mu.Unlock()

	if ix == nil {
		return nil, domain.ErrIndexNotInitialized
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return ix.search(vector, k), nil
}

// Size returns the number of chunks currently indexed in memory.
func (s *Service) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx == nil {
		return 0
	}
	return s.idx.size()
}

// FileInfo describes one file of the persisted index.
type FileInfo struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	MTime int64  `json:"mtime"`
}

// LoadResult reports the outcome of a forced load.
type LoadResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Status describes the persisted index on disk.
type Status struct {
	Path   string      `json:"path"`
	Exists bool        `json:"exists"`
	Files  []FileInfo  `json:"files"`
	Load   *LoadResult `json:"load,omitempty"`
}

// Status reports the persisted index location and contents. When forceLoad
// is set it also attempts Init and reports the outcome.
func (s *Service) Status(ctx context.Context, forceLoad bool) *Status {
	st := &Status{
		Path:   s.persistPath,
		Exists: Exists(s.persistPath),
		Files:  []FileInfo{},
	}

	if entries, err := os.ReadDir(s.persistPath); err == nil {
		for _, e := range entries {
			fi := FileInfo{Name: e.Name()}
			if info, err := e.Info(); err == nil {
				fi.Size = info.Size()
				fi.MTime = info.ModTime().Unix()
			}
			st.Files = append(st.Files, fi)
		}
	}

	if forceLoad {
		if err := s.Init(ctx); err != nil {
			st.Load = &LoadResult{OK: false, Error: err.Error()}
		} else {
			st.Load = &LoadResult{OK: true}
		}
	}

	return st
}
