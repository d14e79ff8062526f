package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/packindex/internal/apperr"
	"github.com/starford/packindex/internal/builder"
	"github.com/starford/packindex/internal/testutil"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	root := testutil.ContentRoot(t)
	testutil.WritePack(t, root, "bio", testutil.Manifest("bio", []string{"a", "b"}, []string{"l0", "l1"}))
	testutil.WriteSkill(t, root, "bio", "x.md", testutil.Doc("", "id", "x", "name", "X", "categoryId", "b", "levelId", "l0", "order", "1"))
	testutil.WriteSkill(t, root, "bio", "y.md", testutil.Doc("", "id", "y", "name", "Y", "categoryId", "a", "levelId", "l0", "order", "2"))
	testutil.WriteUnit(t, root, "bio", "u1.md", testutil.Doc("", "id", "u1", "title", "Intro", "teaches", "[x, y]"))

	out := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Content.Root = root
	cfg.Content.Output = filepath.Join(out, "generated", "content-index.json")
	cfg.Export.SQLitePath = filepath.Join(out, "content.db")
	cfg.Metrics.TextfilePath = filepath.Join(out, "packindex.prom")
	return cfg
}

func run(t *testing.T, cfg *Config, opts ...Option) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	base := []Option{
		WithConfig(cfg),
		WithStdout(&stdout),
		WithLogOutput(io.Discard),
		WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
	}
	err := Run(context.Background(), append(base, opts...)...)
	return stdout.String(), err
}

func TestRun_BuildWritesOutputs(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap, err := builder.ReadSnapshot(cfg.Content.Output)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.DefaultPackID != "bio" || len(snap.Skills) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	for _, p := range []string{cfg.Export.SQLitePath, cfg.Metrics.TextfilePath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestRun_CheckDoesNotWrite(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg, WithMode(ModeCheck)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(cfg.Content.Output); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("check wrote output: %v", err)
	}
}

func TestRun_CheckFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	testutil.WriteUnit(t, cfg.Content.Root, "bio", "u2.md", testutil.Doc("", "id", "u2", "teaches", "[no-such-skill]"))

	if _, err := run(t, cfg, WithMode(ModeCheck)); !errors.Is(err, apperr.ErrDanglingTeaches) {
		t.Fatalf("err = %v, want ErrDanglingTeaches", err)
	}
	for _, p := range []string{cfg.Content.Output, cfg.Metrics.TextfilePath, cfg.Export.SQLitePath} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("check wrote %s: %v", p, err)
		}
	}
}

func TestRun_ExportFailureRecorded(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Export.SQLitePath = filepath.Join(blocker, "content.db")

	if _, err := run(t, cfg); err == nil {
		t.Fatal("expected export failure")
	}
	data, err := os.ReadFile(cfg.Metrics.TextfilePath)
	if err != nil {
		t.Fatalf("metrics not written: %v", err)
	}
	if !strings.Contains(string(data), `packindex_build_runs_total{result="failure"} 1`) {
		t.Errorf("failure not recorded:\n%s", data)
	}
	if strings.Contains(string(data), `result="success"`) {
		t.Errorf("failed export recorded as success:\n%s", data)
	}
}

func TestRun_BuildFailureKeepsOutput(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(cfg.Content.Output)

	testutil.WriteUnit(t, cfg.Content.Root, "bio", "u2.md", testutil.Doc("", "id", "u2", "teaches", "[no-such-skill]"))
	_, err := run(t, cfg)
	if !errors.Is(err, apperr.ErrDanglingTeaches) {
		t.Fatalf("err = %v, want ErrDanglingTeaches", err)
	}
	after, _ := os.ReadFile(cfg.Content.Output)
	if !bytes.Equal(before, after) {
		t.Error("failed build replaced the previous output")
	}
}

func TestRun_ListSkillsCategoryFirst(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, cfg, WithMode(ModeList), WithListQuery(ListQuery{Kind: "skills", Sort: "category"}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "\ty\t") || !strings.Contains(lines[1], "\tx\t") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestRun_ListLessons(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, cfg, WithMode(ModeList), WithListQuery(ListQuery{Kind: "lessons"}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "u1\tIntro") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestRun_ListUnknownPack(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, cfg, WithMode(ModeList), WithListQuery(ListQuery{Pack: "nope"}))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("Run without config should fail")
	}
}
