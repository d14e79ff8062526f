// Package storage defines the content tree file-system abstraction.
package storage

// Entry describes one content document found under the content root.
type Entry struct {
	// Path is relative to the content root, with forward slashes.
	Path string
	// Name is the base file name.
	Name string
}

// Provider is the interface for content tree operations.
type Provider interface {
	// Dirs returns the names of the immediate subdirectories of dir, sorted.
	Dirs(dir string) ([]string, error)
	// List returns the files directly under dir whose extension is one of exts,
	// sorted by name. A missing dir yields an error matching fs.ErrNotExist.
	List(dir string, exts []string) ([]Entry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool
}
