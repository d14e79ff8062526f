// Package graph derives the prerequisite edge list and the skill → unit
// reverse index from a validated pack. Nothing here performs I/O.
package graph

import (
	"fmt"

	"github.com/starford/packindex/internal/models"
)

// Result holds the derived indexes of one pack.
type Result struct {
	Links []models.SkillLink
	// TaughtBy maps skill id to teaching unit ids in unit encounter order.
	TaughtBy map[string][]string
}

// Build derives the prerequisite edges (one per skill/prerequisite pair,
// prerequisite → dependent, not deduplicated) and the reverse teaching index.
func Build(skills []*models.Skill, units []*models.Unit) *Result {
	var links []models.SkillLink
	for _, s := range skills {
		for _, p := range s.Prereqs {
			links = append(links, models.SkillLink{From: p, To: s.ID, Type: models.LinkTypePrereq})
		}
	}
	if links == nil {
		links = []models.SkillLink{}
	}

	taughtBy := make(map[string][]string, len(skills))
	for _, u := range units {
		for _, sid := range u.Teaches {
			taughtBy[sid] = append(taughtBy[sid], u.ID)
		}
	}
	return &Result{Links: links, TaughtBy: taughtBy}
}

// Apply copies the reverse index onto the skills. Skills taught by no unit
// get an empty list.
func (r *Result) Apply(skills []*models.Skill) {
	for _, s := range skills {
		ids := r.TaughtBy[s.ID]
		s.TaughtByUnits = make([]string, len(ids))
		copy(s.TaughtByUnits, ids)
	}
}

// Untaught returns the ids of skills no unit teaches, in skill order.
func (r *Result) Untaught(skills []*models.Skill) []string {
	var out []string
	for _, s := range skills {
		if len(r.TaughtBy[s.ID]) == 0 {
			out = append(out, s.ID)
		}
	}
	return out
}

// UntaughtWarning summarises untaught skills as a single warning, or returns
// nil when every skill is taught.
func UntaughtWarning(packID string, untaught []string) *models.Warning {
	if len(untaught) == 0 {
		return nil
	}
	return &models.Warning{
		Pack:    packID,
		Kind:    models.WarnUntaughtSkills,
		Entity:  "skill",
		ID:      untaught[0],
		Message: fmt.Sprintf("%d skills are not taught by any units yet (example: %s)", len(untaught), untaught[0]),
	}
}

// Prereqs returns the prerequisite ids of skill id following links.
func Prereqs(links []models.SkillLink, id string) []string {
	var out []string
	for _, l := range links {
		if l.To == id {
			out = append(out, l.From)
		}
	}
	return out
}

// Dependents returns the ids of skills that list id as a prerequisite.
func Dependents(links []models.SkillLink, id string) []string {
	var out []string
	for _, l := range links {
		if l.From == id {
			out = append(out, l.To)
		}
	}
	return out
}
