package internal

import (
	"io"
	"time"
)

// Mode selects what Run does.
type Mode string

// Run modes.
const (
	ModeBuild Mode = "build"
	ModeCheck Mode = "check"
	ModeWatch Mode = "watch"
	ModeList  Mode = "list"
)

// ListQuery selects what ModeList prints.
type ListQuery struct {
	Pack string
	// Kind is "skills" or "lessons".
	Kind string
	// Sort is a skill sort name: "category", "level" or "number".
	Sort string
}

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mode   Mode
	list   ListQuery
	stdout io.Writer
	logOut io.Writer
	now    func() time.Time
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode sets the run mode. Defaults to ModeBuild.
func WithMode(m Mode) Option {
	return func(a *application) {
		a.mode = m
	}
}

// WithListQuery sets the query printed by ModeList.
func WithListQuery(q ListQuery) Option {
	return func(a *application) {
		a.list = q
	}
}

// WithStdout sets where ModeList prints. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

// WithLogOutput sets where logs go. Defaults to os.Stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithClock sets the clock stamped into snapshots.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}
