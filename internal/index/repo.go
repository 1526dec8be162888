package index

import (
	"fmt"
	"time"
)

// DocRow represents a row in the documents table.
type DocRow struct {
	Path         string
	Checksum     string
	OutsideCount int
	InsideCount  int
	UpdatedAt    time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Snippet string
}

// UpsertDocument inserts or replaces a document row and its FTS entry
// within a transaction. body is the rendered plain text of the document,
// which is what search matches against.
func (db *DB) UpsertDocument(row DocRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	// Upsert documents table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO documents (path, checksum, outside_count, inside_count, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum      = excluded.checksum,
			outside_count = excluded.outside_count,
			inside_count  = excluded.inside_count,
			body          = excluded.body,
			updated_at    = excluded.updated_at
	`, row.Path, row.Checksum, row.OutsideCount, row.InsideCount, body, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, row.Path, body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteDocument removes a document row and its FTS entry.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM documents WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a document, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// ListDocuments returns every indexed document ordered by path.
func (db *DB) ListDocuments() ([]DocRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, checksum, outside_count, inside_count, updated_at
		FROM documents
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocRow
	for rows.Next() {
		var r DocRow
		if err := rows.Scan(&r.Path, &r.Checksum, &r.OutsideCount, &r.InsideCount, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AllChecksums returns the checksum of every indexed document keyed by path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
