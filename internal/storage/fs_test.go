package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, s
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirsSortedAndHiddenSkipped(t *testing.T) {
	root, s := tempRoot(t)
	for _, d := range []string{"zeta", "alpha", ".git", "mid"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, root, "file.md", "x")

	dirs, err := s.Dirs("")
	if err != nil {
		t.Fatalf("Dirs: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(dirs) != len(want) {
		t.Fatalf("dirs = %v, want %v", dirs, want)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("dirs[%d] = %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestListFiltersExtensions(t *testing.T) {
	root, s := tempRoot(t)
	writeFile(t, root, "p/skills/b.mdx", "b")
	writeFile(t, root, "p/skills/a.md", "a")
	writeFile(t, root, "p/skills/readme.txt", "no")
	writeFile(t, root, "p/skills/nested/c.md", "nested files are not listed")

	items, err := s.List("p/skills", []string{".mdx", ".md"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(items), items)
	}
	if items[0].Path != "p/skills/a.md" || items[1].Name != "b.mdx" {
		t.Errorf("items = %v", items)
	}
}

func TestListMissingDir(t *testing.T) {
	_, s := tempRoot(t)
	_, err := s.List("nope", []string{".md"})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestReadAndExists(t *testing.T) {
	root, s := tempRoot(t)
	writeFile(t, root, "p/pack.json", "{}")
	got, err := s.Read("p/pack.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("content = %q", got)
	}
	if !s.Exists("p/pack.json") || s.Exists("p/pack.yaml") {
		t.Error("Exists returned wrong result")
	}
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if s.Exists(p) {
			t.Errorf("Exists(%q) should be false", p)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "generated", "index.json")

	if err := WriteFileAtomic(target, []byte("original")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := WriteFileAtomic(target, []byte("updated")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "generated", ".packindex-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestHasExt(t *testing.T) {
	exts := []string{".mdx", ".md"}
	if !HasExt("a.MD", exts) || !HasExt("b.mdx", exts) {
		t.Error("expected recognized extensions")
	}
	if HasExt("c.txt", exts) || HasExt("md", exts) {
		t.Error("unexpected match")
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "packindex-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
