package index

// ContentIndex defines the queries served from an exported snapshot.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type ContentIndex interface {
	ReplacePack(p PackRow, skills []SkillRow, units []UnitRow, links []LinkRow, teaches []TeachRow) error
	DeletePack(id string) error
	PackChecksums() (map[string]string, error)
	TaughtBy(packID, skillID string) ([]string, error)
	Prereqs(packID, skillID string) ([]string, error)
	Dependents(packID, skillID string) ([]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies ContentIndex at compile time.
var _ ContentIndex = (*DB)(nil)
