package ordering

import (
	"testing"

	"github.com/starford/packindex/internal/models"
)

func numberingFixture() []*models.Skill {
	return []*models.Skill{
		{ID: "l1-a", Name: "Alpha", CategoryID: "a", LevelID: "l1"},
		{ID: "l0-b", Name: "Beta", CategoryID: "b", LevelID: "l0"},
		{ID: "l0-a-2", Name: "Zed", CategoryID: "a", LevelID: "l0", Order: num(2)},
		{ID: "l0-a-unset", Name: "Yak", CategoryID: "a", LevelID: "l0"},
		{ID: "l0-stray", Name: "Stray", CategoryID: "zzz", LevelID: "l0"},
		{ID: "x-level", Name: "Xeno", CategoryID: "a", LevelID: "xtra"},
		{ID: "blank", Name: "Blank", CategoryID: "a"},
	}
}

func TestSkillNumbers_Order(t *testing.T) {
	n := SkillNumbers(manifest(), numberingFixture())
	want := map[string]int{
		"l0-a-unset": 1, // unset order sorts as 0
		"l0-a-2":     2,
		"l0-b":       3,
		"l0-stray":   4, // unlisted category after listed ones
		"l1-a":       5,
		"blank":      6, // "unknown" level sorts before "xtra"
		"x-level":    7,
	}
	for id, w := range want {
		if got, ok := n.Of(id); !ok || got != w {
			t.Errorf("number(%s) = %d (%v), want %d", id, got, ok, w)
		}
	}
	if len(n) != len(want) {
		t.Errorf("numbered %d skills, want %d", len(n), len(want))
	}
}

func TestSkillNumbers_ContiguousAndStable(t *testing.T) {
	skills := numberingFixture()
	a := SkillNumbers(manifest(), skills)
	b := SkillNumbers(manifest(), skills)

	seen := map[int]bool{}
	for id, v := range a {
		if v < 1 || v > len(skills) {
			t.Errorf("%s numbered %d, out of range", id, v)
		}
		if seen[v] {
			t.Errorf("number %d assigned twice", v)
		}
		seen[v] = true
		if b[id] != v {
			t.Errorf("%s numbered %d then %d", id, v, b[id])
		}
	}
}

func TestSkillNumbers_UndefinedForAbsentID(t *testing.T) {
	n := SkillNumbers(manifest(), numberingFixture())
	if _, ok := n.Of("missing"); ok {
		t.Error("absent id must have no number")
	}
	if len(SkillNumbers(manifest(), nil)) != 0 {
		t.Error("empty skill set must number nothing")
	}
}

func TestSkillNumbers_DuplicateIDKeepsFirst(t *testing.T) {
	skills := []*models.Skill{
		{ID: "dup", Name: "A", CategoryID: "a", LevelID: "l0"},
		{ID: "other", Name: "B", CategoryID: "a", LevelID: "l0"},
		{ID: "dup", Name: "C", CategoryID: "a", LevelID: "l1"},
	}
	n := SkillNumbers(manifest(), skills)
	if n["dup"] != 1 || n["other"] != 2 || len(n) != 2 {
		t.Errorf("numbers = %v", n)
	}
}
