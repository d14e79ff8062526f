// Package catalog answers read-only questions about a built snapshot: pack
// listings, lesson sequences, skill browsing order and per-entity details.
// Every ordering it returns comes from the ordering package.
package catalog

import (
	"fmt"
	"sort"

	"github.com/starford/packindex/internal/apperr"
	"github.com/starford/packindex/internal/graph"
	"github.com/starford/packindex/internal/models"
	"github.com/starford/packindex/internal/ordering"
)

// PackSummary is a lightweight item in a pack listing.
type PackSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Skills      int    `json:"skills"`
	Units       int    `json:"units"`
	Default     bool   `json:"default"`
}

// SkillDetail is a skill with its number and graph neighbourhood.
type SkillDetail struct {
	Skill      *models.Skill   `json:"skill"`
	Number     int             `json:"number,omitempty"`
	Prereqs    []*models.Skill `json:"prereqs"`
	Dependents []*models.Skill `json:"dependents"`
	TaughtBy   []*models.Unit  `json:"taughtBy"`
}

// UnitDetail is a unit with the skills it teaches resolved.
type UnitDetail struct {
	Unit    *models.Unit    `json:"unit"`
	Teaches []*models.Skill `json:"teaches"`
}

// Catalog is a read-only view over a snapshot.
type Catalog struct {
	snap *models.Snapshot
}

// New creates a Catalog over snap. snap must not be mutated afterwards.
func New(snap *models.Snapshot) *Catalog {
	return &Catalog{snap: snap}
}

// Packs lists every pack sorted by id.
func (c *Catalog) Packs() []PackSummary {
	ids := make([]string, 0, len(c.snap.Packs))
	for id := range c.snap.Packs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]PackSummary, 0, len(ids))
	for _, id := range ids {
		p := c.snap.Packs[id]
		out = append(out, PackSummary{
			ID:          id,
			Name:        p.Manifest.Name,
			Description: p.Manifest.Description,
			Skills:      len(p.Skills),
			Units:       len(p.Units),
			Default:     id == c.snap.DefaultPackID,
		})
	}
	return out
}

// Pack returns the pack index of id.
func (c *Catalog) Pack(id string) (*models.PackIndex, error) {
	p, ok := c.snap.Packs[id]
	if !ok {
		return nil, fmt.Errorf("pack %q: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

// DefaultPack returns the default pack index.
func (c *Catalog) DefaultPack() (*models.PackIndex, error) {
	return c.Pack(c.snap.DefaultPackID)
}

// Lessons returns the units of a pack in lesson order.
func (c *Catalog) Lessons(packID string) ([]*models.Unit, error) {
	p, err := c.Pack(packID)
	if err != nil {
		return nil, err
	}
	return ordering.Units(&p.Manifest, p.Units), nil
}

// Skills returns the skills of a pack in browsing order.
func (c *Catalog) Skills(packID string, mode ordering.SkillSort) ([]*models.Skill, error) {
	p, err := c.Pack(packID)
	if err != nil {
		return nil, err
	}
	return ordering.Skills(&p.Manifest, p.Skills, mode), nil
}

// SkillNumbers returns the stable skill numbering of a pack.
func (c *Catalog) SkillNumbers(packID string) (ordering.Numbers, error) {
	p, err := c.Pack(packID)
	if err != nil {
		return nil, err
	}
	return ordering.SkillNumbers(&p.Manifest, p.Skills), nil
}

// Skill returns the detail of one skill. Related skills and units are
// listed in browsing and lesson order respectively.
func (c *Catalog) Skill(packID, id string) (*SkillDetail, error) {
	p, err := c.Pack(packID)
	if err != nil {
		return nil, err
	}
	s, ok := p.SkillsByID[id]
	if !ok {
		return nil, fmt.Errorf("skill %q in pack %q: %w", id, packID, apperr.ErrNotFound)
	}

	d := &SkillDetail{
		Skill:      s,
		Prereqs:    c.skills(p, graph.Prereqs(p.SkillLinks, id)),
		Dependents: c.skills(p, graph.Dependents(p.SkillLinks, id)),
		TaughtBy:   []*models.Unit{},
	}
	if n, ok := ordering.SkillNumbers(&p.Manifest, p.Skills).Of(id); ok {
		d.Number = n
	}
	for _, uid := range s.TaughtByUnits {
		if u, ok := p.UnitsByID[uid]; ok {
			d.TaughtBy = append(d.TaughtBy, u)
		}
	}
	d.TaughtBy = ordering.Units(&p.Manifest, d.TaughtBy)
	return d, nil
}

// Unit returns the detail of one unit.
func (c *Catalog) Unit(packID, id string) (*UnitDetail, error) {
	p, err := c.Pack(packID)
	if err != nil {
		return nil, err
	}
	u, ok := p.UnitsByID[id]
	if !ok {
		return nil, fmt.Errorf("unit %q in pack %q: %w", id, packID, apperr.ErrNotFound)
	}
	return &UnitDetail{Unit: u, Teaches: c.skills(p, u.Teaches)}, nil
}

// skills resolves ids against p, dropping unknown and repeated ids, and
// returns them in level-first browsing order.
func (c *Catalog) skills(p *models.PackIndex, ids []string) []*models.Skill {
	out := []*models.Skill{}
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s, ok := p.SkillsByID[id]; ok {
			out = append(out, s)
		}
	}
	return ordering.Skills(&p.Manifest, out, ordering.ByLevel)
}
