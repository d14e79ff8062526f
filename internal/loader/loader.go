// Package loader reads pack manifests and content documents from a content tree.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/starford/packindex/internal/apperr"
	"github.com/starford/packindex/internal/models"
	"github.com/starford/packindex/internal/parser"
	"github.com/starford/packindex/internal/storage"
)

// Content subdirectories of a pack.
const (
	SkillsDir = "skills"
	UnitsDir  = "units"
)

// DefaultExtensions are the recognized content document extensions.
var DefaultExtensions = []string{".mdx", ".md"}

// ManifestFiles lists the accepted manifest names in lookup order.
var ManifestFiles = []string{"pack.json", "pack.yaml", "pack.yml"}

// Document is one raw content document split into metadata and body.
type Document struct {
	// Source is the display path used in warnings and errors.
	Source string
	// File is the base file name; its stem is the fallback id.
	File     string
	Metadata map[string]any
	Body     string
}

// Loader reads packs from a storage provider.
type Loader struct {
	store      storage.Provider
	exts       []string
	sourceBase string
}

// New creates a Loader. sourceBase prefixes every Document.Source
// (e.g. "content/packs"); exts defaults to DefaultExtensions.
func New(store storage.Provider, exts []string, sourceBase string) *Loader {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &Loader{store: store, exts: exts, sourceBase: sourceBase}
}

// PackIDs returns the pack directory names in iteration order.
func (l *Loader) PackIDs() ([]string, error) {
	ids, err := l.store.Dirs("")
	if err != nil {
		return nil, fmt.Errorf("loader: list packs: %w", err)
	}
	if len(ids) == 0 {
		return nil, apperr.ErrNoPacks
	}
	return ids, nil
}

// Manifest reads the manifest of packID. The manifest id defaults to the
// directory name when absent.
func (l *Loader) Manifest(packID string) (*models.Manifest, error) {
	for _, name := range ManifestFiles {
		p := path.Join(packID, name)
		if !l.store.Exists(p) {
			continue
		}
		data, err := l.store.Read(p)
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		var m models.Manifest
		if path.Ext(name) == ".json" {
			err = json.Unmarshal(data, &m)
		} else {
			err = yaml.Unmarshal(data, &m)
		}
		if err != nil {
			return nil, &apperr.ContentError{
				Kind:   apperr.ErrInvalidManifest,
				Pack:   packID,
				Entity: "manifest",
				Detail: err.Error(),
				Source: l.source(p),
			}
		}
		if m.ID == "" {
			m.ID = packID
		}
		return &m, nil
	}
	return nil, &apperr.ContentError{
		Kind:   apperr.ErrInvalidManifest,
		Pack:   packID,
		Entity: "manifest",
		Detail: "no pack.json or pack.yaml found",
		Source: l.source(packID),
	}
}

// Skills reads the skill documents of packID. The skills directory is required.
func (l *Loader) Skills(packID string) ([]Document, error) {
	return l.documents(packID, SkillsDir, false)
}

// Units reads the unit documents of packID. A pack without a units
// directory has no units yet.
func (l *Loader) Units(packID string) ([]Document, error) {
	return l.documents(packID, UnitsDir, true)
}

func (l *Loader) documents(packID, kind string, optional bool) ([]Document, error) {
	dir := path.Join(packID, kind)
	entries, err := l.store.List(dir, l.exts)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("loader: [%s] %s: %w", packID, kind, err)
	}

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		data, err := l.store.Read(e.Path)
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		res, err := parser.Parse(data)
		if err != nil {
			if ce, ok := apperr.AsContent(err); ok {
				ce.Pack = packID
				ce.Entity = kindEntity(kind)
				ce.Source = l.source(e.Path)
				return nil, ce
			}
			return nil, fmt.Errorf("loader: parse %s: %w", e.Path, err)
		}
		docs = append(docs, Document{
			Source:   l.source(e.Path),
			File:     e.Name,
			Metadata: res.Metadata,
			Body:     res.Body,
		})
	}
	return docs, nil
}

func (l *Loader) source(rel string) string {
	if l.sourceBase == "" {
		return rel
	}
	return path.Join(l.sourceBase, rel)
}

func kindEntity(kind string) string {
	if kind == SkillsDir {
		return "skill"
	}
	return "unit"
}
