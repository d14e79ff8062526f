// Package index exports built snapshots into SQLite for ad hoc querying,
// with optional FTS5 full-text search over skills and units.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS packs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	is_default  INTEGER NOT NULL DEFAULT 0,
	exported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS skills (
	pack_id     TEXT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category_id TEXT NOT NULL DEFAULT '',
	level_id    TEXT NOT NULL DEFAULT '',
	ord         REAL,
	status      TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	number      INTEGER NOT NULL DEFAULT 0,
	source_path TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (pack_id, id)
);

CREATE TABLE IF NOT EXISTS units (
	pack_id           TEXT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
	id                TEXT NOT NULL,
	title             TEXT NOT NULL DEFAULT '',
	summary           TEXT NOT NULL DEFAULT '',
	category_id       TEXT NOT NULL DEFAULT '',
	level_id          TEXT NOT NULL DEFAULT '',
	ord               REAL,
	estimated_minutes REAL,
	difficulty        TEXT NOT NULL DEFAULT '',
	position          INTEGER NOT NULL DEFAULT 0,
	source_path       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (pack_id, id)
);

CREATE TABLE IF NOT EXISTS skill_links (
	pack_id TEXT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
	source  TEXT NOT NULL,
	target  TEXT NOT NULL,
	type    TEXT NOT NULL DEFAULT 'prereq'
);

CREATE TABLE IF NOT EXISTS unit_teaches (
	pack_id  TEXT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
	unit_id  TEXT NOT NULL,
	skill_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_skill_links_source ON skill_links(pack_id, source);
CREATE INDEX IF NOT EXISTS idx_skill_links_target ON skill_links(pack_id, target);
CREATE INDEX IF NOT EXISTS idx_unit_teaches_skill ON unit_teaches(pack_id, skill_id);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
