// Package normalize maps raw content documents onto canonical skills and units.
package normalize

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/packindex/internal/apperr"
	"github.com/starford/packindex/internal/loader"
	"github.com/starford/packindex/internal/models"
	"github.com/starford/packindex/internal/parser"
)

// Document type tags accepted in the `type` field.
const (
	TypeSkill = "skill"
	TypeUnit  = "unit"
)

// Skill maps one skill document onto a Skill.
//
// Id falls back to the file stem and name to title then id; both fallbacks
// emit a warning. Category and level ids fall back to slugified legacy
// quadrant/ring labels. A document tagged with another type is fatal.
func Skill(packID string, doc loader.Document) (*models.Skill, []models.Warning, error) {
	f := fields(doc.Metadata)
	var warnings []models.Warning

	id, ok := f.str("id")
	if !ok {
		id = stem(doc.File)
		warnings = append(warnings, models.Warning{
			Pack:    packID,
			Kind:    models.WarnMissingID,
			Entity:  TypeSkill,
			ID:      id,
			Source:  doc.Source,
			Message: fmt.Sprintf("skill missing frontmatter id, using filename: %s", doc.File),
		})
	}
	if err := checkType(f, packID, TypeSkill, id, doc.Source); err != nil {
		return nil, nil, err
	}

	name, ok := f.first("name", "title")
	if !ok {
		name = id
		warnings = append(warnings, missingTitle(packID, TypeSkill, id, doc))
	}
	title, _ := f.str("title")

	description, ok := f.str("description")
	if !ok {
		description, _ = parser.ExtractDescription(doc.Body)
	}

	quadrant, _ := f.str("quadrant")
	ring, _ := f.str("ring")
	categoryID, ok := f.str("categoryId")
	if !ok {
		categoryID = parser.Slugify(quadrant)
	}
	levelID, ok := f.str("levelId")
	if !ok {
		levelID = parser.Slugify(ring)
	}
	status, _ := f.str("status")

	kitTags := f.list("kitTags")
	if !f.hasList("kitTags") {
		kitTags = f.list("tags")
	}

	return &models.Skill{
		ID:             id,
		PackID:         packID,
		Name:           name,
		Title:          title,
		Description:    description,
		Quadrant:       quadrant,
		Ring:           ring,
		CategoryID:     categoryID,
		LevelID:        levelID,
		Order:          f.num("order"),
		Status:         status,
		RequiresSkills: f.list("requiresSkills"),
		Prereqs:        f.list("prereqs"),
		TaughtByUnits:  []string{},
		KitTags:        kitTags,
		SourcePath:     doc.Source,
	}, warnings, nil
}

// Unit maps one unit document onto a Unit. Fallback and type rules match Skill.
func Unit(packID string, doc loader.Document) (*models.Unit, []models.Warning, error) {
	f := fields(doc.Metadata)
	var warnings []models.Warning

	id, ok := f.str("id")
	if !ok {
		id = stem(doc.File)
		warnings = append(warnings, models.Warning{
			Pack:    packID,
			Kind:    models.WarnMissingID,
			Entity:  TypeUnit,
			ID:      id,
			Source:  doc.Source,
			Message: fmt.Sprintf("unit missing frontmatter id, using filename: %s", doc.File),
		})
	}
	if err := checkType(f, packID, TypeUnit, id, doc.Source); err != nil {
		return nil, nil, err
	}

	title, ok := f.first("title", "name")
	if !ok {
		title = id
		warnings = append(warnings, missingTitle(packID, TypeUnit, id, doc))
	}
	summary, _ := f.str("summary")
	difficulty, _ := f.str("difficulty")
	categoryID, _ := f.str("categoryId")
	levelID, _ := f.str("levelId")

	return &models.Unit{
		ID:               id,
		PackID:           packID,
		Title:            title,
		Summary:          summary,
		Teaches:          f.list("teaches"),
		EstimatedMinutes: f.num("estimatedMinutes"),
		Difficulty:       difficulty,
		DoneWhen:         f.list("doneWhen"),
		CategoryID:       categoryID,
		LevelID:          levelID,
		Order:            f.num("order"),
		SourcePath:       doc.Source,
	}, warnings, nil
}

// checkType fails when the document is explicitly tagged as another kind:
// that is a misplaced file, not something to default around.
func checkType(f fields, packID, want, id, source string) error {
	got, ok := f.str("type")
	if !ok || got == want {
		return nil
	}
	return &apperr.ContentError{
		Kind:   apperr.ErrTypeMismatch,
		Pack:   packID,
		Entity: want,
		ID:     id,
		Value:  got,
		Detail: fmt.Sprintf("expected type '%s'", want),
		Source: source,
	}
}

func missingTitle(packID, entity, id string, doc loader.Document) models.Warning {
	return models.Warning{
		Pack:    packID,
		Kind:    models.WarnMissingTitle,
		Entity:  entity,
		ID:      id,
		Source:  doc.Source,
		Message: fmt.Sprintf("%s %s missing title/name (%s)", entity, id, doc.File),
	}
}

func stem(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}
