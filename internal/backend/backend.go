// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend stages picked files in a working directory, runs the
// markitdown tool on them, and cleans the working directory up afterwards.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pdiddy/doc-converter/internal/container"
	"github.com/pdiddy/doc-converter/internal/errinfo"
	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/pkg/types"
)

const (
	// stagingDir is the subdirectory under the working directory for uploads.
	stagingDir = "temp"
	// appDir names the per-user cache directory.
	appDir = "doc-converter"
)

// Backend stages files and converts them with a Tool.
type Backend struct {
	fs      afero.Fs
	tool    Tool
	workDir string
	log     *logbuf.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithFs sets the filesystem used for staging and output checks.
func WithFs(fs afero.Fs) Option {
	return func(b *Backend) { b.fs = fs }
}

// WithWorkDir sets the working directory. Uploads go to <dir>/temp.
func WithWorkDir(dir string) Option {
	return func(b *Backend) { b.workDir = dir }
}

// WithLogger sets the logger.
func WithLogger(log *logbuf.Logger) Option {
	return func(b *Backend) { b.log = log }
}

// New returns a Backend that converts with tool. Without options it uses
// the OS filesystem and the user cache directory.
func New(tool Tool, opts ...Option) *Backend {
	b := &Backend{fs: afero.NewOsFs(), tool: tool, log: logbuf.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	if b.workDir == "" {
		b.workDir = defaultWorkDir()
	}
	return b
}

// Open builds a Backend from configuration, selecting the exec or
// container tool.
func Open(ctx context.Context, cfg types.BackendConfig, log *logbuf.Logger) (*Backend, error) {
	var tool Tool
	switch cfg.Mode {
	case types.BackendExec, "":
		tool = NewExecTool(cfg.Binary)
	case types.BackendContainer:
		rt, err := container.Select(ctx, cfg.Runtime)
		if err != nil {
			return nil, fmt.Errorf("selecting container runtime: %w", err)
		}
		tool = NewContainerTool(rt, cfg.Image)
	default:
		return nil, fmt.Errorf("unknown backend mode %q: use exec or container", cfg.Mode)
	}
	return New(tool, WithWorkDir(cfg.TempDir), WithLogger(log)), nil
}

func defaultWorkDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appDir)
	}
	return filepath.Join(os.TempDir(), appDir)
}

// StagingDir returns the directory uploads are written to.
func (b *Backend) StagingDir() string {
	return filepath.Join(b.workDir, stagingDir)
}

// Tool returns the conversion tool.
func (b *Backend) Tool() Tool { return b.tool }

// Available reports whether the conversion tool can be invoked.
func (b *Backend) Available(ctx context.Context) error {
	return b.tool.Available(ctx)
}

// StageUploadedFile writes data to the staging directory under name and
// returns the staged path. name must be a bare file name.
func (b *Backend) StageUploadedFile(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", newError(errinfo.InvalidPath, nil, "%s", name)
	}

	dir := b.StagingDir()
	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return "", newError(errinfo.IOError, err, "creating staging directory %s: %v", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := afero.WriteFile(b.fs, path, data, 0o644); err != nil {
		return "", newError(errinfo.IOError, err, "writing %s: %v", path, err)
	}

	b.log.Debug("Staged uploaded file", map[string]any{"path": path, "size": len(data)})
	return path, nil
}

// Convert runs one conversion. Problems with the request itself (unknown
// formats, unsupported pairs, an output directory that cannot be created)
// are returned as errors; a missing input or a failed tool run is reported
// in the result.
func (b *Backend) Convert(ctx context.Context, req types.ConversionRequest) (types.ConversionResult, error) {
	if exists, _ := afero.Exists(b.fs, req.InputPath); !exists {
		return types.ConversionResult{
			Success: false,
			Error:   "Input file not found",
			Message: fmt.Sprintf("The file '%s' does not exist", req.InputPath),
			Code:    string(errinfo.FileNotFound),
		}, nil
	}

	from, err := resolveFormat(req.InputFormat, req.InputPath)
	if err != nil {
		return types.ConversionResult{}, err
	}
	to, err := resolveFormat(req.OutputFormat, req.OutputPath)
	if err != nil {
		return types.ConversionResult{}, err
	}
	if !format.Supports(from, to) {
		return types.ConversionResult{}, newError(errinfo.UnsupportedFormat, nil,
			"%s to %s", from.DisplayName(), to.DisplayName())
	}

	if dir := filepath.Dir(req.OutputPath); dir != "" {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return types.ConversionResult{}, newError(errinfo.IOError, err,
				"Failed to create output directory: %v", err)
		}
	}

	job := Job{Input: req.InputPath, Output: req.OutputPath, From: from, To: to}
	b.log.Info("Running conversion tool", map[string]any{
		"tool": b.tool.Name(), "input": job.Input, "output": job.Output, "to": string(to),
	})

	if err := b.tool.Convert(ctx, b.fs, job); err != nil {
		return failed(err), nil
	}
	if exists, _ := afero.Exists(b.fs, req.OutputPath); !exists {
		return failed(newError(errinfo.ConversionFailed, nil, "Output file was not created successfully")), nil
	}

	return types.ConversionResult{
		Success:    true,
		OutputPath: req.OutputPath,
		Message:    fmt.Sprintf("Successfully converted %s to %s", req.InputPath, req.OutputPath),
	}, nil
}

// failed reports a tool error. Error keeps the code prefix; Message is the
// bare detail, since display code adds its own prefix.
func failed(err error) types.ConversionResult {
	res := types.ConversionResult{Success: false, Error: err.Error(), Message: err.Error()}
	var e *Error
	if errors.As(err, &e) {
		res.Code = string(e.Code)
		res.Message = e.Message
	}
	return res
}

// resolveFormat returns f when set, otherwise infers it from path.
func resolveFormat(f types.Format, path string) (types.Format, error) {
	if f != "" {
		if resolved, ok := format.FromExtension(string(f)); ok {
			return resolved, nil
		}
		return "", newError(errinfo.UnsupportedFormat, nil, "%s", f)
	}
	ext := format.Extension(filepath.Base(path))
	if ext == "" {
		return "", newError(errinfo.InvalidPath, nil, "%s", path)
	}
	resolved, ok := format.FromExtension(ext)
	if !ok {
		return "", newError(errinfo.UnsupportedFormat, nil, "%s", ext)
	}
	return resolved, nil
}

// CleanupTempFiles removes the staging directory if it exists.
func (b *Backend) CleanupTempFiles(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := b.StagingDir()
	exists, err := afero.DirExists(b.fs, dir)
	if err != nil {
		return newError(errinfo.IOError, err, "checking %s: %v", dir, err)
	}
	if !exists {
		return nil
	}
	if err := b.fs.RemoveAll(dir); err != nil {
		return newError(errinfo.IOError, err, "removing %s: %v", dir, err)
	}
	b.log.Debug("Removed staging directory", map[string]any{"path": dir})
	return nil
}
