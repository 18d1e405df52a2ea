package types

// LogConfig holds settings for the in-memory application log.
type LogConfig struct {
	// Level is the minimum severity kept: debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level" toml:"level"`

	// Capacity is the maximum number of entries retained (default 1000).
	Capacity int `json:"capacity" yaml:"capacity" mapstructure:"capacity" toml:"capacity"`

	// Console mirrors every kept entry to stderr.
	Console bool `json:"console" yaml:"console" mapstructure:"console" toml:"console"`

	// File, when set, receives the exported log when the command exits.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file" toml:"file,omitempty"`
}

// BackendMode selects how the markitdown tool is reached.
type BackendMode string

const (
	BackendExec      BackendMode = "exec"
	BackendContainer BackendMode = "container"
)

// BackendConfig holds settings for the conversion backend.
type BackendConfig struct {
	// Mode is exec (markitdown binary on PATH) or container (docker/podman image).
	Mode BackendMode `json:"mode" yaml:"mode" mapstructure:"mode" toml:"mode"`

	// Binary is the markitdown executable used in exec mode.
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary" toml:"binary"`

	// Image is the container image used in container mode.
	Image string `json:"image" yaml:"image" mapstructure:"image" toml:"image"`

	// Runtime is auto, docker, or podman (container mode only).
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime" toml:"runtime"`

	// TempDir is the working directory under which uploads are staged.
	// Empty means the user cache directory.
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty" mapstructure:"temp_dir" toml:"temp_dir,omitempty"`
}

// HistoryConfig holds settings for the conversion history database.
type HistoryConfig struct {
	// Enabled turns history recording on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled" toml:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path" toml:"path"`
}

// Config groups all settings for doc-converter.
type Config struct {
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log" toml:"log"`
	Backend BackendConfig `json:"backend" yaml:"backend" mapstructure:"backend" toml:"backend"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history" toml:"history"`
}
