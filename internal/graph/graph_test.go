package graph

import (
	"reflect"
	"testing"

	"github.com/starford/packindex/internal/models"
)

func fixture() ([]*models.Skill, []*models.Unit) {
	skills := []*models.Skill{
		{ID: "a"},
		{ID: "b", Prereqs: []string{"a"}},
		{ID: "c", Prereqs: []string{"a", "b", "a"}},
		{ID: "d"},
	}
	units := []*models.Unit{
		{ID: "u2", Teaches: []string{"b", "a"}},
		{ID: "u1", Teaches: []string{"a"}},
		{ID: "u3", Teaches: []string{"c"}},
	}
	return skills, units
}

func TestBuild_Links(t *testing.T) {
	skills, units := fixture()
	r := Build(skills, units)
	want := []models.SkillLink{
		{From: "a", To: "b", Type: "prereq"},
		{From: "a", To: "c", Type: "prereq"},
		{From: "b", To: "c", Type: "prereq"},
		{From: "a", To: "c", Type: "prereq"},
	}
	if !reflect.DeepEqual(r.Links, want) {
		t.Errorf("links = %v\nwant %v", r.Links, want)
	}
}

func TestBuild_NoLinksIsEmptyNotNil(t *testing.T) {
	r := Build([]*models.Skill{{ID: "a"}}, nil)
	if r.Links == nil || len(r.Links) != 0 {
		t.Errorf("links = %#v", r.Links)
	}
}

func TestReverseIndex(t *testing.T) {
	skills, units := fixture()
	r := Build(skills, units)
	r.Apply(skills)

	want := map[string][]string{
		"a": {"u2", "u1"}, // encounter order, not sorted
		"b": {"u2"},
		"c": {"u3"},
		"d": {},
	}
	for _, s := range skills {
		if !reflect.DeepEqual(s.TaughtByUnits, want[s.ID]) {
			t.Errorf("%s.taughtByUnits = %#v, want %#v", s.ID, s.TaughtByUnits, want[s.ID])
		}
	}

	// Every (unit, taught skill) pair is reflected, and nothing else.
	byID := map[string]*models.Skill{}
	for _, s := range skills {
		byID[s.ID] = s
	}
	for _, u := range units {
		for _, sid := range u.Teaches {
			if !contains(byID[sid].TaughtByUnits, u.ID) {
				t.Errorf("%s missing from %s.taughtByUnits", u.ID, sid)
			}
		}
	}
	for _, s := range skills {
		for _, uid := range s.TaughtByUnits {
			var teaches bool
			for _, u := range units {
				if u.ID == uid && contains(u.Teaches, s.ID) {
					teaches = true
				}
			}
			if !teaches {
				t.Errorf("%s listed under %s but does not teach it", uid, s.ID)
			}
		}
	}
}

func TestUntaught(t *testing.T) {
	skills, units := fixture()
	r := Build(skills, units)
	got := r.Untaught(skills)
	if !reflect.DeepEqual(got, []string{"d"}) {
		t.Errorf("untaught = %v", got)
	}
	w := UntaughtWarning("bio", got)
	if w == nil || w.Kind != models.WarnUntaughtSkills || w.ID != "d" {
		t.Errorf("warning = %+v", w)
	}
	if UntaughtWarning("bio", nil) != nil {
		t.Error("no warning expected when every skill is taught")
	}
}

func TestPrereqsAndDependents(t *testing.T) {
	skills, units := fixture()
	links := Build(skills, units).Links
	if got := Prereqs(links, "b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("prereqs(b) = %v", got)
	}
	if got := Dependents(links, "b"); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("dependents(b) = %v", got)
	}
	if got := Dependents(links, "d"); got != nil {
		t.Errorf("dependents(d) = %v", got)
	}
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
