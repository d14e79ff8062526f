package index

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/starford/packindex/internal/checksum"
	"github.com/starford/packindex/internal/models"
	"github.com/starford/packindex/internal/ordering"
)

// ExportStats counts what an export changed.
type ExportStats struct {
	Updated   int
	Unchanged int
	Removed   int
}

// Export brings the index up to date with snap:
//   - packs whose content checksum changed are replaced in one transaction
//   - packs no longer in the snapshot are deleted
func Export(db ContentIndex, snap *models.Snapshot, logger *slog.Logger) (ExportStats, error) {
	var stats ExportStats

	stored, err := db.PackChecksums()
	if err != nil {
		return stats, err
	}

	ids := make([]string, 0, len(snap.Packs))
	for id := range snap.Packs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := snap.Packs[id]
		// The default flag lives outside the pack JSON, so it is part of the checksum.
		cs, err := checksum.JSON(p, snap.DefaultPackID)
		if err != nil {
			return stats, fmt.Errorf("index: pack %s: %w", id, err)
		}
		if stored[id] == cs {
			stats.Unchanged++
			continue
		}

		row := PackRow{ID: id, Name: p.Manifest.Name, Checksum: cs, Default: id == snap.DefaultPackID, ExportedAt: snap.GeneratedAt}
		skills, units, links, teaches := packRows(p)
		if err := db.ReplacePack(row, skills, units, links, teaches); err != nil {
			return stats, fmt.Errorf("index: export pack %s: %w", id, err)
		}
		stats.Updated++
		logger.Debug("export: pack replaced", slog.String("pack", id), slog.Int("skills", len(skills)), slog.Int("units", len(units)))
	}

	for id := range stored {
		if _, ok := snap.Packs[id]; ok {
			continue
		}
		if err := db.DeletePack(id); err != nil {
			return stats, fmt.Errorf("index: delete pack %s: %w", id, err)
		}
		stats.Removed++
		logger.Debug("export: removed stale pack", slog.String("pack", id))
	}

	return stats, nil
}

// packRows flattens p into table rows. Skills carry their sequential number
// and units their lesson position.
func packRows(p *models.PackIndex) ([]SkillRow, []UnitRow, []LinkRow, []TeachRow) {
	numbers := ordering.SkillNumbers(&p.Manifest, p.Skills)

	skills := make([]SkillRow, 0, len(p.Skills))
	for _, s := range p.Skills {
		n, _ := numbers.Of(s.ID)
		skills = append(skills, SkillRow{
			ID:          s.ID,
			Name:        s.Name,
			Title:       s.Title,
			Description: s.Description,
			CategoryID:  s.CategoryID,
			LevelID:     s.LevelID,
			Order:       s.Order,
			Status:      s.Status,
			Tags:        s.KitTags,
			Number:      n,
			SourcePath:  s.SourcePath,
		})
	}

	var units []UnitRow
	var teaches []TeachRow
	for i, u := range ordering.Units(&p.Manifest, p.Units) {
		units = append(units, UnitRow{
			ID:               u.ID,
			Title:            u.Title,
			Summary:          u.Summary,
			CategoryID:       u.CategoryID,
			LevelID:          u.LevelID,
			Order:            u.Order,
			EstimatedMinutes: u.EstimatedMinutes,
			Difficulty:       u.Difficulty,
			Position:         i + 1,
			SourcePath:       u.SourcePath,
		})
		for _, sid := range u.Teaches {
			teaches = append(teaches, TeachRow{UnitID: u.ID, SkillID: sid})
		}
	}

	links := make([]LinkRow, 0, len(p.SkillLinks))
	for _, l := range p.SkillLinks {
		links = append(links, LinkRow{Source: l.From, Target: l.To, Type: l.Type})
	}
	return skills, units, links, teaches
}
