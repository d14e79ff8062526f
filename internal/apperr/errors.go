// Package apperr defines the error taxonomy shared by the content build.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNoPacks         = errors.New("no content packs")
	ErrInvalidManifest = errors.New("invalid manifest")

	// Content authoring errors. All of them abort the build of the affected pack.
	ErrMalformedMetadata = errors.New("malformed metadata")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrMissingID         = errors.New("missing id")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownLevel      = errors.New("unknown level")
	ErrDanglingPrereq    = errors.New("unknown prerequisite")
	ErrDanglingTeaches   = errors.New("unknown taught skill")
)

// ContentError locates a content authoring error: which pack, which entity,
// the offending value and the document it came from.
type ContentError struct {
	Kind   error
	Pack   string
	Entity string // "skill", "unit" or "manifest"
	ID     string
	Value  string
	Label  string // e.g. "quadrant='Cell Biology'", the legacy label a value was derived from
	Source string
	Detail string
}

func (e *ContentError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Pack, e.Entity)
	if e.ID != "" {
		fmt.Fprintf(&b, " %s", e.ID)
	}
	fmt.Fprintf(&b, ": %s", e.Kind)
	if e.Value != "" || e.Label != "" {
		fmt.Fprintf(&b, " '%s'", e.Value)
	}
	if e.Label != "" {
		fmt.Fprintf(&b, " (from %s)", e.Label)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, " (source: %s)", e.Source)
	}
	return b.String()
}

func (e *ContentError) Unwrap() error {
	return e.Kind
}

// AsContent returns the first ContentError in err's chain.
func AsContent(err error) (*ContentError, bool) {
	var ce *ContentError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
