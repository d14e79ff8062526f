//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; full-text search uses LIKE fallback on the skills and units tables.
	return nil
}

func ftsInsert(_ *sql.Tx, _, _, _, _, _ string, _ []string) error {
	// Text is already stored in the entity tables; nothing extra to do.
	return nil
}

func ftsDeletePack(_ *sql.Tx, _ string) error { return nil }

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT pack_id, 'skill', id, name, substr(description, 1, 200)
		FROM skills
		WHERE name LIKE ? OR description LIKE ? OR tags LIKE ?
		UNION ALL
		SELECT pack_id, 'unit', id, title, substr(summary, 1, 200)
		FROM units
		WHERE title LIKE ? OR summary LIKE ?
		ORDER BY 1, 2, 3
		LIMIT ?
	`, like, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.PackID, &r.Kind, &r.ID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
