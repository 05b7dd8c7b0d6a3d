package domain

import "errors"

// DocumentChunk is a unit of ingested reference text plus its provenance
// metadata. Chunks are immutable once ingested; the index is append-only.
type DocumentChunk struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Source returns the chunk's source label, or an empty string if absent.
func (c DocumentChunk) Source() string {
	return c.Metadata["source"]
}

// ErrIndexNotInitialized is returned when a search is attempted before any
// index has been ingested or loaded from disk. Callers can distinguish
// "nothing to search yet" from a broken search backend.
var ErrIndexNotInitialized = errors.New("index not initialized: ingest documents or load a persisted index first")
