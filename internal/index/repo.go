package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Entity kinds stored in search results.
const (
	KindSkill = "skill"
	KindUnit  = "unit"
)

// PackRow represents a row in the packs table.
type PackRow struct {
	ID         string
	Name       string
	Checksum   string
	Default    bool
	ExportedAt time.Time
}

// SkillRow represents a row in the skills table.
type SkillRow struct {
	ID          string
	Name        string
	Title       string
	Description string
	CategoryID  string
	LevelID     string
	Order       *float64
	Status      string
	Tags        []string
	Number      int
	SourcePath  string
}

// UnitRow represents a row in the units table. Position is the lesson order.
type UnitRow struct {
	ID               string
	Title            string
	Summary          string
	CategoryID       string
	LevelID          string
	Order            *float64
	EstimatedMinutes *float64
	Difficulty       string
	Position         int
	SourcePath       string
}

// LinkRow is one prerequisite edge.
type LinkRow struct {
	Source string
	Target string
	Type   string
}

// TeachRow records that a unit teaches a skill.
type TeachRow struct {
	UnitID  string
	SkillID string
}

// SearchResult represents one search hit.
type SearchResult struct {
	PackID  string
	Kind    string
	ID      string
	Title   string
	Snippet string
}

// ReplacePack swaps every row of a pack for the given ones in a single transaction.
func (db *DB) ReplacePack(p PackRow, skills []SkillRow, units []UnitRow, links []LinkRow, teaches []TeachRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := deletePack(tx, p.ID); err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT INTO packs (id, name, checksum, is_default, exported_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Checksum, p.Default, p.ExportedAt)
	if err != nil {
		return fmt.Errorf("index: insert pack: %w", err)
	}

	skillStmt, err := tx.Prepare(`
		INSERT INTO skills (pack_id, id, name, title, description, category_id, level_id, ord, status, tags, number, source_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare skill insert: %w", err)
	}
	defer skillStmt.Close()
	for _, s := range skills {
		tagsJSON, _ := json.Marshal(s.Tags)
		if _, err := skillStmt.Exec(p.ID, s.ID, s.Name, s.Title, s.Description, s.CategoryID, s.LevelID,
			s.Order, s.Status, string(tagsJSON), s.Number, s.SourcePath); err != nil {
			return fmt.Errorf("index: insert skill %s: %w", s.ID, err)
		}
		if err := ftsInsert(tx, p.ID, KindSkill, s.ID, s.Name, s.Description, s.Tags); err != nil {
			return err
		}
	}

	unitStmt, err := tx.Prepare(`
		INSERT INTO units (pack_id, id, title, summary, category_id, level_id, ord, estimated_minutes, difficulty, position, source_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare unit insert: %w", err)
	}
	defer unitStmt.Close()
	for _, u := range units {
		if _, err := unitStmt.Exec(p.ID, u.ID, u.Title, u.Summary, u.CategoryID, u.LevelID,
			u.Order, u.EstimatedMinutes, u.Difficulty, u.Position, u.SourcePath); err != nil {
			return fmt.Errorf("index: insert unit %s: %w", u.ID, err)
		}
		if err := ftsInsert(tx, p.ID, KindUnit, u.ID, u.Title, u.Summary, nil); err != nil {
			return err
		}
	}

	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO skill_links (pack_id, source, target, type) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range links {
			if _, err := stmt.Exec(p.ID, l.Source, l.Target, l.Type); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	if len(teaches) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO unit_teaches (pack_id, unit_id, skill_id) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare teaches insert: %w", err)
		}
		defer stmt.Close()
		for _, t := range teaches {
			if _, err := stmt.Exec(p.ID, t.UnitID, t.SkillID); err != nil {
				return fmt.Errorf("index: insert teaches: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeletePack removes a pack and everything exported for it.
func (db *DB) DeletePack(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deletePack(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func deletePack(tx *sql.Tx, id string) error {
	if err := ftsDeletePack(tx, id); err != nil {
		return err
	}
	for _, table := range []string{"unit_teaches", "skill_links", "units", "skills"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE pack_id = ?`, id); err != nil {
			return fmt.Errorf("index: delete %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM packs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete pack: %w", err)
	}
	return nil
}

// PackChecksums returns the stored checksum of every exported pack.
func (db *DB) PackChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM packs`)
	if err != nil {
		return nil, fmt.Errorf("index: pack checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// TaughtBy returns the ids of units teaching skillID, in lesson order.
func (db *DB) TaughtBy(packID, skillID string) ([]string, error) {
	return db.strings(`
		SELECT DISTINCT t.unit_id
		FROM unit_teaches t
		JOIN units u ON u.pack_id = t.pack_id AND u.id = t.unit_id
		WHERE t.pack_id = ? AND t.skill_id = ?
		ORDER BY u.position`, packID, skillID)
}

// Prereqs returns the prerequisite ids of skillID in authored order.
func (db *DB) Prereqs(packID, skillID string) ([]string, error) {
	return db.strings(`SELECT source FROM skill_links WHERE pack_id = ? AND target = ? ORDER BY rowid`, packID, skillID)
}

// Dependents returns the ids of skills that require skillID.
func (db *DB) Dependents(packID, skillID string) ([]string, error) {
	return db.strings(`SELECT target FROM skill_links WHERE pack_id = ? AND source = ? ORDER BY rowid`, packID, skillID)
}

func (db *DB) strings(query string, args ...any) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
