package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/packindex/internal/models"
	"github.com/starford/packindex/internal/storage"
)

// MarshalSnapshot renders snap as two-space indented JSON with a trailing newline.
func MarshalSnapshot(snap *models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteSnapshot writes snap to path atomically, creating parent directories.
// A reader of path sees either the previous snapshot or the new one.
func WriteSnapshot(path string, snap *models.Snapshot) error {
	data, err := MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads a snapshot previously written by WriteSnapshot and
// restores the default pack aliases.
func ReadSnapshot(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	for _, p := range snap.Packs {
		p.SkillsByID = make(map[string]*models.Skill, len(p.Skills))
		for _, s := range p.Skills {
			p.SkillsByID[s.ID] = s
		}
		p.UnitsByID = make(map[string]*models.Unit, len(p.Units))
		for _, u := range p.Units {
			p.UnitsByID[u.ID] = u
		}
	}
	if def := snap.DefaultPack(); def != nil {
		snap.Skills = def.Skills
		snap.SkillsByID = def.SkillsByID
	}
	return &snap, nil
}
