package ordering

import (
	"slices"
	"sort"
	"strings"

	"github.com/starford/packindex/internal/models"
)

// Bucket names for skills with a blank level or category.
const (
	UnknownLevel      = "unknown"
	UncategorisedName = "uncategorised"
)

// Numbers maps skill id to its stable sequential number.
type Numbers map[string]int

// Of returns the number of id. It is undefined (ok == false) for ids outside
// the numbered skill set.
func (n Numbers) Of(id string) (int, bool) {
	v, ok := n[id]
	return v, ok
}

// SkillNumbers assigns 1..N to skills: grouped by level (manifest order,
// then unlisted levels alphabetically), within a level by category (same
// rule), within a bucket by explicit order ascending (unset = 0) then name.
// Repeated ids keep their first number. The result depends only on the
// manifest and the skill set.
func SkillNumbers(m *models.Manifest, skills []*models.Skill) Numbers {
	buckets := map[string]map[string][]*models.Skill{}
	for _, s := range skills {
		lvl := bucketName(s.LevelID, UnknownLevel)
		cat := bucketName(s.CategoryID, UncategorisedName)
		if buckets[lvl] == nil {
			buckets[lvl] = map[string][]*models.Skill{}
		}
		buckets[lvl][cat] = append(buckets[lvl][cat], s)
	}

	var levels, categories []string
	if m != nil {
		levels, categories = m.LevelIDs(), m.CategoryIDs()
	}

	text := newTextComparer()
	within := func(a, b *models.Skill) int {
		ka, kb := SkillKey(a), SkillKey(b)
		if c := compareFloat(ka.order(DefaultSkillOrder), kb.order(DefaultSkillOrder)); c != 0 {
			return c
		}
		return text.compare(ka.nameOrID(), kb.nameOrID(), ka.ID, kb.ID)
	}

	out := Numbers{}
	next := 1
	for _, lvl := range vocabularyOrder(levels, buckets) {
		byCat := buckets[lvl]
		for _, cat := range vocabularyOrder(categories, byCat) {
			list := slices.Clone(byCat[cat])
			slices.SortStableFunc(list, within)
			for _, s := range list {
				if s.ID == "" {
					continue
				}
				if _, seen := out[s.ID]; seen {
					continue
				}
				out[s.ID] = next
				next++
			}
		}
	}
	return out
}

func bucketName(id, fallback string) string {
	if v := strings.TrimSpace(id); v != "" {
		return v
	}
	return fallback
}

// vocabularyOrder lists the manifest ids present in present first, in
// manifest order, followed by the remaining keys of present sorted.
func vocabularyOrder[V any](manifest []string, present map[string]V) []string {
	listed := make(map[string]struct{}, len(manifest))
	var out []string
	for _, id := range manifest {
		if _, dup := listed[id]; dup {
			continue
		}
		listed[id] = struct{}{}
		if _, ok := present[id]; ok {
			out = append(out, id)
		}
	}
	var extra []string
	for id := range present {
		if _, ok := listed[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
