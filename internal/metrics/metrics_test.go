package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/starford/packindex/internal/builder"
	"github.com/starford/packindex/internal/models"
)

func result(packs ...string) *builder.Result {
	snap := &models.Snapshot{GeneratedAt: time.Unix(1700000000, 0), Packs: map[string]*models.PackIndex{}}
	for _, id := range packs {
		snap.Packs[id] = &models.PackIndex{
			Skills: []*models.Skill{
				{ID: "a", TaughtByUnits: []string{"u1"}},
				{ID: "b", TaughtByUnits: []string{}},
			},
			Units:      []*models.Unit{{ID: "u1"}},
			SkillLinks: []models.SkillLink{{From: "a", To: "b", Type: models.LinkTypePrereq}},
		}
	}
	return &builder.Result{
		Snapshot: snap,
		Warnings: []models.Warning{
			{Kind: models.WarnMissingID},
			{Kind: models.WarnMissingID},
			{Kind: models.WarnUntaughtSkills},
		},
	}
}

func TestRecordBuild(t *testing.T) {
	r := New()
	r.RecordBuild(result("bio", "chem"), 120*time.Millisecond)

	if v := testutil.ToFloat64(r.builds.WithLabelValues("success")); v != 1 {
		t.Errorf("success builds = %v", v)
	}
	if v := testutil.ToFloat64(r.packSkills.WithLabelValues("chem")); v != 2 {
		t.Errorf("chem skills = %v", v)
	}
	if v := testutil.ToFloat64(r.packUntaught.WithLabelValues("bio")); v != 1 {
		t.Errorf("bio untaught = %v", v)
	}
	if v := testutil.ToFloat64(r.warnings.WithLabelValues(models.WarnMissingID)); v != 2 {
		t.Errorf("missing id warnings = %v", v)
	}
	if v := testutil.ToFloat64(r.lastSuccess); v != 1700000000 {
		t.Errorf("last success = %v", v)
	}
}

func TestRecordBuild_DropsVanishedPacks(t *testing.T) {
	r := New()
	r.RecordBuild(result("bio", "chem"), time.Millisecond)
	r.RecordBuild(result("bio"), time.Millisecond)

	if n := testutil.CollectAndCount(r.packSkills); n != 1 {
		t.Errorf("pack skill series = %d, want 1", n)
	}
}

func TestRecordFailure(t *testing.T) {
	r := New()
	r.RecordBuild(result("bio"), time.Millisecond)
	r.RecordFailure(time.Millisecond)

	if v := testutil.ToFloat64(r.builds.WithLabelValues("failure")); v != 1 {
		t.Errorf("failed builds = %v", v)
	}
	if v := testutil.ToFloat64(r.packUnits.WithLabelValues("bio")); v != 1 {
		t.Errorf("bio units = %v, want last successful value", v)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.RecordBuild(result("bio"), time.Millisecond)

	path := filepath.Join(t.TempDir(), "packindex.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `packindex_pack_skills{pack="bio"} 2`) {
		t.Errorf("textfile missing pack gauge:\n%s", data)
	}
}
