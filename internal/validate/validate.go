// Package validate checks the referential integrity of a pack before any
// index is derived from it. Every failure is fatal for the whole pack.
package validate

import (
	"fmt"

	"github.com/starford/packindex/internal/apperr"
	"github.com/starford/packindex/internal/models"
)

// Manifest checks that every category and level has an id and that no id
// repeats within its vocabulary.
func Manifest(packID string, m *models.Manifest) error {
	if err := m.Validate(); err != nil {
		return manifestErr(packID, err.Error())
	}
	if dup, ok := firstDuplicate(m.CategoryIDs()); ok {
		return manifestErr(packID, fmt.Sprintf("duplicate category id '%s'", dup))
	}
	if dup, ok := firstDuplicate(m.LevelIDs()); ok {
		return manifestErr(packID, fmt.Sprintf("duplicate level id '%s'", dup))
	}
	return nil
}

// Pack verifies, in order: skill ids are unique and their category and level
// resolve against the manifest; every prerequisite names a skill of the pack;
// unit ids are unique and every taught skill exists. Prerequisites are checked
// only once all skill ids are known since they may point forward.
func Pack(packID string, m *models.Manifest, skills []*models.Skill, units []*models.Unit) error {
	categoryIDs := toSet(m.CategoryIDs())
	levelIDs := toSet(m.LevelIDs())

	skillIDs := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if s.ID == "" {
			return &apperr.ContentError{Kind: apperr.ErrMissingID, Pack: packID, Entity: "skill", Source: s.SourcePath}
		}
		if _, dup := skillIDs[s.ID]; dup {
			return &apperr.ContentError{Kind: apperr.ErrDuplicateID, Pack: packID, Entity: "skill", ID: s.ID, Source: s.SourcePath}
		}
		skillIDs[s.ID] = struct{}{}

		if _, ok := categoryIDs[s.CategoryID]; !ok {
			return &apperr.ContentError{
				Kind:   apperr.ErrUnknownCategory,
				Pack:   packID,
				Entity: "skill",
				ID:     s.ID,
				Value:  s.CategoryID,
				Label:  fmt.Sprintf("quadrant='%s'", s.Quadrant),
				Source: s.SourcePath,
			}
		}
		if _, ok := levelIDs[s.LevelID]; !ok {
			return &apperr.ContentError{
				Kind:   apperr.ErrUnknownLevel,
				Pack:   packID,
				Entity: "skill",
				ID:     s.ID,
				Value:  s.LevelID,
				Label:  fmt.Sprintf("ring='%s'", s.Ring),
				Source: s.SourcePath,
			}
		}
	}

	for _, s := range skills {
		for _, p := range s.Prereqs {
			if _, ok := skillIDs[p]; !ok {
				return &apperr.ContentError{
					Kind:   apperr.ErrDanglingPrereq,
					Pack:   packID,
					Entity: "skill",
					ID:     s.ID,
					Value:  p,
					Detail: "check id spelling",
					Source: s.SourcePath,
				}
			}
		}
	}

	unitIDs := make(map[string]struct{}, len(units))
	for _, u := range units {
		if u.ID == "" {
			return &apperr.ContentError{Kind: apperr.ErrMissingID, Pack: packID, Entity: "unit", Source: u.SourcePath}
		}
		if _, dup := unitIDs[u.ID]; dup {
			return &apperr.ContentError{Kind: apperr.ErrDuplicateID, Pack: packID, Entity: "unit", ID: u.ID, Source: u.SourcePath}
		}
		unitIDs[u.ID] = struct{}{}

		for _, sid := range u.Teaches {
			if _, ok := skillIDs[sid]; !ok {
				return &apperr.ContentError{
					Kind:   apperr.ErrDanglingTeaches,
					Pack:   packID,
					Entity: "unit",
					ID:     u.ID,
					Value:  sid,
					Detail: "check id spelling",
					Source: u.SourcePath,
				}
			}
		}
	}
	return nil
}

func manifestErr(packID, detail string) error {
	return &apperr.ContentError{
		Kind:   apperr.ErrInvalidManifest,
		Pack:   packID,
		Entity: "manifest",
		Detail: detail,
	}
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func firstDuplicate(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}
