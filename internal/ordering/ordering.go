// Package ordering is the single source of presentation order for skills and
// units. Every view sorts through these comparators instead of rolling its own.
//
// Comparators returned here own a collator and are not safe for concurrent
// use; build one per sort. They hold no state shared between calls, so the
// same input always sorts the same way.
package ordering

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/starford/packindex/internal/models"
)

// Unset order defaults. Unordered units sink to the end of their
// category/level group; unordered skills float to the top.
const (
	DefaultUnitOrder  = 9999
	DefaultSkillOrder = 0
)

// unrankedSkill is the rank given to skill categories/levels missing from the manifest.
const unrankedSkill = 999

// Key is the part of a skill or unit that ordering looks at.
type Key struct {
	ID         string
	Name       string
	Title      string
	CategoryID string
	LevelID    string
	Order      *float64
}

// UnitKey returns the ordering key of u.
func UnitKey(u *models.Unit) Key {
	return Key{ID: u.ID, Name: u.Title, Title: u.Title, CategoryID: u.CategoryID, LevelID: u.LevelID, Order: u.Order}
}

// SkillKey returns the ordering key of s.
func SkillKey(s *models.Skill) Key {
	return Key{ID: s.ID, Name: s.Name, Title: s.Title, CategoryID: s.CategoryID, LevelID: s.LevelID, Order: s.Order}
}

func (k Key) titleOrID() string {
	if k.Title != "" {
		return k.Title
	}
	return k.ID
}

func (k Key) nameOrID() string {
	if k.Name != "" {
		return k.Name
	}
	return k.ID
}

func (k Key) order(def float64) float64 {
	if k.Order == nil {
		return def
	}
	return *k.Order
}

// Comparator orders two keys; negative when a sorts first.
type Comparator func(a, b Key) int

// ranks maps manifest ids to their position; the first occurrence wins.
type ranks struct {
	category map[string]int
	level    map[string]int
}

func newRanks(m *models.Manifest) ranks {
	r := ranks{category: map[string]int{}, level: map[string]int{}}
	if m == nil {
		return r
	}
	for i, c := range m.Categories {
		if _, ok := r.category[c.ID]; !ok {
			r.category[c.ID] = i
		}
	}
	for i, l := range m.Levels {
		if _, ok := r.level[l.ID]; !ok {
			r.level[l.ID] = i
		}
	}
	return r
}

func lookup(idx map[string]int, id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	n, ok := idx[id]
	return n, ok
}

// comparePresent orders ids present in the manifest before absent ones and
// present ones by manifest position.
func comparePresent(idx map[string]int, a, b string) int {
	ra, okA := lookup(idx, a)
	rb, okB := lookup(idx, b)
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB:
		return ra - rb
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type textComparer struct {
	c *collate.Collator
}

func newTextComparer() textComparer {
	return textComparer{c: collate.New(language.Und)}
}

// compare orders labels by locale collation, then bytewise, then by id, so
// that only equal ids compare equal.
func (t textComparer) compare(la, lb, ida, idb string) int {
	if c := t.c.CompareString(la, lb); c != 0 {
		return c
	}
	if c := strings.Compare(la, lb); c != 0 {
		return c
	}
	return strings.Compare(ida, idb)
}

// LessonComparator is the primary comparator used to sequence lessons:
// manifest category position (known before unknown), then level position
// under the same rule, then explicit order ascending (unset = 9999), then
// title-or-id by locale collation.
func LessonComparator(m *models.Manifest) Comparator {
	r := newRanks(m)
	text := newTextComparer()
	return func(a, b Key) int {
		if c := comparePresent(r.category, a.CategoryID, b.CategoryID); c != 0 {
			return c
		}
		if c := comparePresent(r.level, a.LevelID, b.LevelID); c != 0 {
			return c
		}
		if c := compareFloat(a.order(DefaultUnitOrder), b.order(DefaultUnitOrder)); c != 0 {
			return c
		}
		return text.compare(a.titleOrID(), b.titleOrID(), a.ID, b.ID)
	}
}

// SkillSort selects the primary key of the skill browsing order.
type SkillSort string

const (
	// ByLevel ranks level, then category. It is also the numbering order.
	ByLevel SkillSort = "level"
	// ByCategory ranks category, then level.
	ByCategory SkillSort = "category"
)

// ParseSkillSort maps a user-facing sort name onto a SkillSort. "number"
// sorts like the skill numbering, i.e. by level. Unknown names fall back to
// ByCategory.
func ParseSkillSort(s string) SkillSort {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "level", "number":
		return ByLevel
	default:
		return ByCategory
	}
}

// SkillComparator is the browsing comparator for skills. Under ByLevel it
// ranks level position, then category position; under ByCategory the other
// way round. Ids missing from the manifest rank after all known ones. Ties
// fall to explicit order ascending (unset = 0), then name.
func SkillComparator(m *models.Manifest, mode SkillSort) Comparator {
	r := newRanks(m)
	text := newTextComparer()
	rank := func(idx map[string]int, id string) int {
		if n, ok := idx[id]; ok {
			return n
		}
		return unrankedSkill
	}
	return func(a, b Key) int {
		ca, cb := rank(r.category, a.CategoryID), rank(r.category, b.CategoryID)
		la, lb := rank(r.level, a.LevelID), rank(r.level, b.LevelID)
		first, second := [2]int{la, lb}, [2]int{ca, cb}
		if mode != ByLevel {
			first, second = second, first
		}
		if c := first[0] - first[1]; c != 0 {
			return c
		}
		if c := second[0] - second[1]; c != 0 {
			return c
		}
		if c := compareFloat(a.order(DefaultSkillOrder), b.order(DefaultSkillOrder)); c != 0 {
			return c
		}
		return text.compare(a.nameOrID(), b.nameOrID(), a.ID, b.ID)
	}
}

// Sort returns a sorted copy of items; the input slice is left untouched so
// snapshot slices can be sorted without mutating them.
func Sort[T any](items []T, key func(T) Key, cmp Comparator) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp(key(a), key(b))
	})
	return out
}

// Units returns units in lesson order.
func Units(m *models.Manifest, units []*models.Unit) []*models.Unit {
	return Sort(units, UnitKey, LessonComparator(m))
}

// Skills returns skills in browsing order.
func Skills(m *models.Manifest, skills []*models.Skill, mode SkillSort) []*models.Skill {
	return Sort(skills, SkillKey, SkillComparator(m, mode))
}
