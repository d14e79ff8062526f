// Package testutil provides shared test helpers for building content trees.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/packindex/internal/models"
)

// ContentRoot creates an empty temporary content root.
func ContentRoot(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// Manifest returns a manifest whose categories and levels use the given ids
// as both id and title.
func Manifest(packID string, categories, levels []string) models.Manifest {
	m := models.Manifest{ID: packID, Name: packID}
	for _, c := range categories {
		m.Categories = append(m.Categories, models.Category{ID: c, Title: c})
	}
	for _, l := range levels {
		m.Levels = append(m.Levels, models.Level{ID: l, Title: l})
	}
	return m
}

// WritePack writes pack.json for m under root/packID.
func WritePack(t *testing.T, root, packID string, m models.Manifest) {
	t.Helper()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	WriteFile(t, root, filepath.Join(packID, "pack.json"), string(data))
}

// WriteSkill writes a skill document under root/packID/skills.
func WriteSkill(t *testing.T, root, packID, file, content string) {
	t.Helper()
	WriteFile(t, root, filepath.Join(packID, "skills", file), content)
}

// WriteUnit writes a unit document under root/packID/units.
func WriteUnit(t *testing.T, root, packID, file, content string) {
	t.Helper()
	WriteFile(t, root, filepath.Join(packID, "units", file), content)
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Doc renders a content document from ordered key/value front matter lines
// and a body. Values are written verbatim, so callers quote strings as YAML needs.
func Doc(body string, kv ...string) string {
	var b strings.Builder
	b.WriteString("---\n")
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, "%s: %s\n", kv[i], kv[i+1])
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}
