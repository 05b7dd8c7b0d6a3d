package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tabletalk/rules-qa/internal/domain"
)

const indexFileName = "index.db"

// Exists reports whether a persisted index is present: the directory exists
// and is non-empty.
func Exists(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// save writes the full index to <dir>/index.db, replacing any previous
// contents in a single transaction.
func save(dir string, ix *memoryIndex) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, indexFileName))
	if err != nil {
		return fmt.Errorf("failed to open index database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			position  INTEGER PRIMARY KEY,
			text      TEXT NOT NULL,
			metadata  TEXT NOT NULL,
			embedding TEXT NOT NULL
		)`,
		`DELETE FROM chunks`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("failed to prepare chunks table: %w", err)
		}
	}

	insert, err := tx.Prepare(`INSERT INTO chunks (position, text, metadata, embedding) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	for i, e := range ix.entries {
		metadata, err := json.Marshal(e.chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
		embedding, err := json.Marshal(e.vector)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding: %w", err)
		}
		if _, err := insert.Exec(i, e.chunk.Text, string(metadata), string(embedding)); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// load reads a persisted index from <dir>/index.db in ingestion order.
func load(dir string) (*memoryIndex, error) {
	path := filepath.Join(dir, indexFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("persisted index not found at %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT text, metadata, embedding FROM chunks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}
	defer rows.Close()

	var entries []entry
	for rows.Next() {
		var text, metadataJSON, embeddingJSON string
		if err := rows.Scan(&text, &metadataJSON, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		var metadata map[string]string
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
		}
		var vector []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &vector); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding: %w", err)
		}

		entries = append(entries, entry{
			chunk:  domain.DocumentChunk{Text: text, Metadata: metadata},
			vector: vector,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunk rows: %w", err)
	}

	return newMemoryIndex(entries), nil
}
