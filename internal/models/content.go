// Package models defines the content types produced by the pack build.
//
// Every value reachable from a Snapshot is owned by the build that produced
// it. Consumers must treat it as read-only.
package models

import "time"

// Category is one entry of a pack's ordered category vocabulary.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Level is one entry of a pack's ordered level vocabulary.
type Level struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Manifest describes a pack: its identity and the ranking vocabularies.
type Manifest struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description"`
	Categories  []Category `json:"categories" yaml:"categories"`
	Levels      []Level    `json:"levels" yaml:"levels"`
}

// CategoryIDs returns the category ids in manifest order.
func (m *Manifest) CategoryIDs() []string {
	out := make([]string, len(m.Categories))
	for i, c := range m.Categories {
		out[i] = c.ID
	}
	return out
}

// LevelIDs returns the level ids in manifest order.
func (m *Manifest) LevelIDs() []string {
	out := make([]string, len(m.Levels))
	for i, l := range m.Levels {
		out[i] = l.ID
	}
	return out
}

// Skill is a unit of knowledge within a pack.
type Skill struct {
	ID          string `json:"id"`
	PackID      string `json:"packId"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Legacy display labels, kept so older content stays traceable.
	Quadrant string `json:"quadrant"`
	Ring     string `json:"ring"`

	CategoryID string   `json:"categoryId"`
	LevelID    string   `json:"levelId"`
	Order      *float64 `json:"order,omitempty"`
	Status     string   `json:"status,omitempty"`

	RequiresSkills []string `json:"requiresSkills"`
	Prereqs        []string `json:"prereqs"`
	// TaughtByUnits is computed from Unit.Teaches, never authored.
	TaughtByUnits []string `json:"taughtByUnits"`
	KitTags       []string `json:"kitTags"`

	SourcePath string `json:"sourcePath"`
}

// Unit is a lesson that teaches one or more skills.
type Unit struct {
	ID      string   `json:"id"`
	PackID  string   `json:"packId"`
	Title   string   `json:"title"`
	Summary string   `json:"summary,omitempty"`
	Teaches []string `json:"teaches"`

	EstimatedMinutes *float64 `json:"estimatedMinutes,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	DoneWhen         []string `json:"doneWhen,omitempty"`

	// Display ordering hints only.
	CategoryID string   `json:"categoryId,omitempty"`
	LevelID    string   `json:"levelId,omitempty"`
	Order      *float64 `json:"order,omitempty"`

	SourcePath string `json:"sourcePath"`
}

// LinkTypePrereq is the only skill link type.
const LinkTypePrereq = "prereq"

// SkillLink is a derived prerequisite edge: From must be learned before To.
type SkillLink struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// PackIndex is the built, validated form of one pack.
type PackIndex struct {
	Manifest   Manifest          `json:"manifest"`
	Skills     []*Skill          `json:"skills"`
	SkillsByID map[string]*Skill `json:"skillsById"`
	Units      []*Unit           `json:"units"`
	UnitsByID  map[string]*Unit  `json:"unitsById"`
	SkillLinks []SkillLink       `json:"skillLinks"`
}

// Snapshot is the complete output of one build run.
type Snapshot struct {
	GeneratedAt   time.Time             `json:"generatedAt"`
	DefaultPackID string                `json:"defaultPackId"`
	Packs         map[string]*PackIndex `json:"packs"`

	// Aliases of Packs[DefaultPackID].
	Skills     []*Skill          `json:"skills"`
	SkillsByID map[string]*Skill `json:"skillsById"`
}

// DefaultPack returns the pack named by DefaultPackID, or nil.
func (s *Snapshot) DefaultPack() *PackIndex {
	return s.Packs[s.DefaultPackID]
}
