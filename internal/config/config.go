// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads doc-converter settings from a config file,
// DOC_CONVERTER_* environment variables, and command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-converter/internal/backend"
	"github.com/pdiddy/doc-converter/internal/container"
	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/pkg/types"
)

const (
	// Name is the config file base name and the per-user directory name.
	Name = "doc-converter"
	// EnvPrefix prefixes environment variables, e.g. DOC_CONVERTER_LOG_LEVEL.
	EnvPrefix = "DOC_CONVERTER"
)

// Setup points v at the config file (explicit path, or doc-converter.yaml
// in the working directory or ~/.config/doc-converter), enables environment
// overrides, and registers defaults.
func Setup(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.capacity", logbuf.DefaultCapacity)
	v.SetDefault("log.console", false)
	v.SetDefault("log.file", "")

	v.SetDefault("backend.mode", string(types.BackendExec))
	v.SetDefault("backend.binary", backend.DefaultBinary)
	v.SetDefault("backend.image", backend.DefaultImage)
	v.SetDefault("backend.runtime", container.Auto)
	v.SetDefault("backend.temp_dir", "")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", defaultHistoryPath())
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, Name, "history.db")
}

// Read reads the config file, if any. A missing file is not an error; the
// returned path is empty in that case.
func Read(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and limits.
func Validate(cfg types.Config) error {
	var errs []error
	if _, err := logbuf.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if cfg.Log.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("log.capacity: must be positive, got %d", cfg.Log.Capacity))
	}
	switch cfg.Backend.Mode {
	case types.BackendExec, types.BackendContainer:
	default:
		errs = append(errs, fmt.Errorf("backend.mode: %q is not exec or container", cfg.Backend.Mode))
	}
	switch strings.ToLower(cfg.Backend.Runtime) {
	case "", container.Auto, "docker", "podman":
	default:
		errs = append(errs, fmt.Errorf("backend.runtime: %q is not auto, docker, or podman", cfg.Backend.Runtime))
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		errs = append(errs, errors.New("history.path: required when history is enabled"))
	}
	return errors.Join(errs...)
}

// Logger builds the application logger described by cfg. Console output,
// when enabled, goes to console.
func Logger(cfg types.LogConfig, console io.Writer) (*logbuf.Logger, error) {
	level, err := logbuf.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := []logbuf.Option{logbuf.WithLevel(level), logbuf.WithCapacity(cfg.Capacity)}
	if cfg.Console && console != nil {
		opts = append(opts, logbuf.WithConsole(console))
	}
	return logbuf.New(opts...), nil
}

// Dump renders cfg as YAML.
func Dump(cfg types.Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// DumpTOML renders cfg as TOML.
func DumpTOML(cfg types.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
