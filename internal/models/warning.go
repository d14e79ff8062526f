package models

// Warning kinds.
const (
	WarnMissingID        = "missing_id"
	WarnMissingTitle     = "missing_title"
	WarnUntaughtSkills   = "untaught_skills"
	WarnManifestIDDiffer = "manifest_id_mismatch"
)

// Warning is a non-fatal content completeness finding.
type Warning struct {
	Pack    string
	Kind    string
	Entity  string
	ID      string
	Source  string
	Message string
}
