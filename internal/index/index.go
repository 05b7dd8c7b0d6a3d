// Package index implements the embedding-backed similarity index:
// brute-force cosine search in memory, persisted to SQLite on disk.
package index

import (
	"math"
	"sort"

	"github.com/tabletalk/rules-qa/internal/domain"
)

type entry struct {
	chunk  domain.DocumentChunk
	vector []float32
}

// memoryIndex holds chunks and their embeddings. Instances are treated as
// immutable after construction: ingestion builds a new index with the
// appended entries and swaps the pointer, so concurrent searches can keep
// reading a consistent snapshot.
type memoryIndex struct {
	entries []entry
}

func newMemoryIndex(entries []entry) *memoryIndex {
	return &memoryIndex{entries: entries}
}

// withAdded returns a new index containing this index's entries plus the
// given ones, in ingestion order.
func (ix *memoryIndex) withAdded(added []entry) *memoryIndex {
	merged := make([]entry, 0, len(ix.entries)+len(added))
	merged = append(merged, ix.entries...)
	merged = append(merged, added...)
	return newMemoryIndex(merged)
}

func (ix *memoryIndex) size() int {
	return len(ix.entries)
}

// search returns up to k chunks ordered by decreasing cosine similarity.
// Sorting is stable so equal scores keep ingestion order, making results
// deterministic for identical index state and query.
func (ix *memoryIndex) search(query []float32, k int) []domain.DocumentChunk {
	type scored struct {
		chunk domain.DocumentChunk
		score float64
	}

	results := make([]scored, 0, len(ix.entries))
	for _, e := range ix.entries {
		results = append(results, scored{chunk: e.chunk, score: cosineSimilarity(query, e.vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}

	chunks := make([]domain.DocumentChunk, k)
	for i := 0; i < k; i++ {
		chunks[i] = results[i].chunk
	}
	return chunks
}

// cosineSimilarity returns a value between -1 and 1, where 1 means
// identical direction. Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
