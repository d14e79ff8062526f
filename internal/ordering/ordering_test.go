package ordering

import (
	"reflect"
	"testing"

	"github.com/starford/packindex/internal/models"
)

func manifest() *models.Manifest {
	return &models.Manifest{
		ID:         "p",
		Categories: []models.Category{{ID: "a"}, {ID: "b"}},
		Levels:     []models.Level{{ID: "l0"}, {ID: "l1"}},
	}
}

func num(f float64) *float64 { return &f }

func unitIDs(us []*models.Unit) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.ID
	}
	return out
}

func skillIDs(ss []*models.Skill) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.ID
	}
	return out
}

func TestSkills_CategoryFirstExample(t *testing.T) {
	skills := []*models.Skill{
		{ID: "x", Name: "X", CategoryID: "b", LevelID: "l0", Order: num(1)},
		{ID: "y", Name: "Y", CategoryID: "a", LevelID: "l0", Order: num(2)},
	}
	got := skillIDs(Skills(manifest(), skills, ByCategory))
	if !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Errorf("order = %v, want [y x]", got)
	}
}

func TestSkills_LevelVersusCategoryFirst(t *testing.T) {
	skills := []*models.Skill{
		{ID: "b0", Name: "B0", CategoryID: "b", LevelID: "l0"},
		{ID: "a1", Name: "A1", CategoryID: "a", LevelID: "l1"},
	}
	if got := skillIDs(Skills(manifest(), skills, ByLevel)); !reflect.DeepEqual(got, []string{"b0", "a1"}) {
		t.Errorf("by level = %v", got)
	}
	if got := skillIDs(Skills(manifest(), skills, ByCategory)); !reflect.DeepEqual(got, []string{"a1", "b0"}) {
		t.Errorf("by category = %v", got)
	}
}

func TestSkills_UnsetOrderSortsFirst(t *testing.T) {
	skills := []*models.Skill{
		{ID: "ordered", Name: "A", CategoryID: "a", LevelID: "l0", Order: num(1)},
		{ID: "unordered", Name: "Z", CategoryID: "a", LevelID: "l0"},
	}
	got := skillIDs(Skills(manifest(), skills, ByLevel))
	if !reflect.DeepEqual(got, []string{"unordered", "ordered"}) {
		t.Errorf("order = %v, unset skill order defaults to 0", got)
	}
}

func TestSkills_UnknownIDsRankLast(t *testing.T) {
	skills := []*models.Skill{
		{ID: "stray", Name: "A", CategoryID: "zzz", LevelID: "l0"},
		{ID: "known", Name: "B", CategoryID: "b", LevelID: "l0"},
	}
	got := skillIDs(Skills(manifest(), skills, ByCategory))
	if !reflect.DeepEqual(got, []string{"known", "stray"}) {
		t.Errorf("order = %v", got)
	}
}

func TestParseSkillSort(t *testing.T) {
	cases := map[string]SkillSort{"level": ByLevel, "number": ByLevel, "category": ByCategory, "": ByCategory, "bogus": ByCategory}
	for in, want := range cases {
		if got := ParseSkillSort(in); got != want {
			t.Errorf("ParseSkillSort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnits_LessonOrder(t *testing.T) {
	units := []*models.Unit{
		{ID: "no-cat", Title: "A"},
		{ID: "b-l0", Title: "B", CategoryID: "b", LevelID: "l0"},
		{ID: "a-nolevel", Title: "A", CategoryID: "a"},
		{ID: "a-l1", Title: "A", CategoryID: "a", LevelID: "l1"},
		{ID: "a-l0-unordered", Title: "A", CategoryID: "a", LevelID: "l0"},
		{ID: "a-l0-2", Title: "Z", CategoryID: "a", LevelID: "l0", Order: num(2)},
		{ID: "a-l0-1", Title: "Z", CategoryID: "a", LevelID: "l0", Order: num(1)},
		{ID: "unknown-cat", Title: "A", CategoryID: "nope"},
	}
	got := unitIDs(Units(manifest(), units))
	want := []string{"a-l0-1", "a-l0-2", "a-l0-unordered", "a-l1", "a-nolevel", "b-l0", "no-cat", "unknown-cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v\nwant %v", got, want)
	}
}

func TestUnits_TitleCollation(t *testing.T) {
	units := []*models.Unit{
		{ID: "3", Title: "cherry"},
		{ID: "1", Title: "banana"},
		{ID: "2", Title: "Apple"},
		{ID: "0"},
	}
	got := unitIDs(Units(manifest(), units))
	if !reflect.DeepEqual(got, []string{"0", "2", "1", "3"}) {
		t.Errorf("order = %v", got)
	}
}

func TestLessonComparator_Total(t *testing.T) {
	cmp := LessonComparator(manifest())
	a := Key{ID: "a", Title: "Same", CategoryID: "a"}
	b := Key{ID: "b", Title: "Same", CategoryID: "a"}
	if cmp(a, b) == 0 || cmp(a, b) != -cmp(b, a) {
		t.Errorf("distinct ids compared %d / %d", cmp(a, b), cmp(b, a))
	}
	if cmp(a, a) != 0 {
		t.Error("a key must compare equal to itself")
	}
}

func TestSort_DeterministicAndNonMutating(t *testing.T) {
	units := []*models.Unit{
		{ID: "c", Title: "C", CategoryID: "b"},
		{ID: "a", Title: "A", CategoryID: "a"},
		{ID: "b", Title: "B"},
	}
	first := unitIDs(Units(manifest(), units))
	second := unitIDs(Units(manifest(), units))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("non-deterministic: %v vs %v", first, second)
	}
	if got := unitIDs(units); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("input mutated: %v", got)
	}
}

func TestSort_EmptyAndSingleton(t *testing.T) {
	if got := Units(manifest(), nil); len(got) != 0 {
		t.Errorf("empty = %v", got)
	}
	one := []*models.Unit{{ID: "only"}}
	if got := unitIDs(Units(nil, one)); !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("singleton = %v", got)
	}
	if got := Skills(nil, nil, ByLevel); len(got) != 0 {
		t.Errorf("empty skills = %v", got)
	}
}
