// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/pkg/types"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, logbuf.DefaultCapacity, cfg.Log.Capacity)
	assert.Equal(t, types.BackendExec, cfg.Backend.Mode)
	assert.Equal(t, "markitdown", cfg.Backend.Binary)
	assert.Equal(t, "markitdown:latest", cfg.Backend.Image)
	assert.Equal(t, "auto", cfg.Backend.Runtime)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "history.db", filepath.Base(cfg.History.Path))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  capacity: 200
backend:
  mode: container
  runtime: podman
  temp_dir: /var/tmp/dc
history:
  enabled: false
`), 0o644))

	v := viper.New()
	Setup(v, path)
	used, err := Read(v)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 200, cfg.Log.Capacity)
	assert.Equal(t, types.BackendContainer, cfg.Backend.Mode)
	assert.Equal(t, "podman", cfg.Backend.Runtime)
	assert.Equal(t, "/var/tmp/dc", cfg.Backend.TempDir)
	assert.Equal(t, "markitdown:latest", cfg.Backend.Image, "unset keys keep defaults")
	assert.False(t, cfg.History.Enabled)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DOC_CONVERTER_LOG_LEVEL", "warn")
	t.Setenv("DOC_CONVERTER_BACKEND_BINARY", "/opt/markitdown")

	v := viper.New()
	Setup(v, filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/opt/markitdown", cfg.Backend.Binary)
}

func TestReadMissingSearchedFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	Setup(v, "")
	used, err := Read(v)
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestReadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0o644))

	v := viper.New()
	Setup(v, path)
	_, err := Read(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	valid := types.Config{
		Log:     types.LogConfig{Level: "info", Capacity: 10},
		Backend: types.BackendConfig{Mode: types.BackendExec, Runtime: "auto"},
	}
	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(*types.Config)
		want   string
	}{
		{"bad level", func(c *types.Config) { c.Log.Level = "loud" }, "log.level"},
		{"zero capacity", func(c *types.Config) { c.Log.Capacity = 0 }, "log.capacity"},
		{"bad mode", func(c *types.Config) { c.Backend.Mode = "remote" }, "backend.mode"},
		{"bad runtime", func(c *types.Config) { c.Backend.Runtime = "lxc" }, "backend.runtime"},
		{"history without path", func(c *types.Config) { c.History.Enabled = true }, "history.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogger(t *testing.T) {
	var console bytes.Buffer
	log, err := Logger(types.LogConfig{Level: "warn", Capacity: 5, Console: true}, &console)
	require.NoError(t, err)
	assert.Equal(t, logbuf.LevelWarn, log.Level())
	assert.Equal(t, 5, log.Capacity())

	log.Warn("mirrored", nil)
	assert.Contains(t, console.String(), "mirrored")

	_, err = Logger(types.LogConfig{Level: "nope", Capacity: 5}, nil)
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)

	data, err := Dump(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: exec")
	assert.Contains(t, string(data), "capacity: 1000")
}

func TestDumpTOML(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)

	data, err := DumpTOML(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[backend]")
	assert.Contains(t, string(data), `mode = "exec"`)
	assert.Contains(t, string(data), "capacity = 1000")
}
