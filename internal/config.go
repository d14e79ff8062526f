package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
	LogFormatAuto = "auto"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Build   BuildConfig       `yaml:"build"`
	Watch   WatchConfig       `yaml:"watch"`
	Export  ExportConfig      `yaml:"export"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText, LogFormatAuto)),
	)
}

// ContentConfig locates the content tree and the generated snapshot.
type ContentConfig struct {
	// Root holds one directory per pack.
	Root string `yaml:"root"`
	// Output is the snapshot JSON path.
	Output string `yaml:"output"`
	// DefaultPack overrides the default pack when it names an existing pack.
	DefaultPack string   `yaml:"default_pack"`
	Extensions  []string `yaml:"extensions"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Output, validation.Required),
		validation.Field(&c.Extensions, validation.Required, validation.Each(validation.Required)),
	)
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	Parallelism int `yaml:"parallelism"`
}

// Validate validates the build configuration.
func (c *BuildConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Parallelism, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// ExportConfig holds the optional SQLite export target. Empty disables the export.
type ExportConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// MetricsConfig holds the optional Prometheus textfile target. Empty disables it.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
		},
		Content: ContentConfig{
			Root:       "content/packs",
			Output:     "content/generated/content-index.json",
			Extensions: []string{".mdx", ".md"},
		},
		Build: BuildConfig{
			Parallelism: 4,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
