// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/doc-converter/internal/container"
	"github.com/pdiddy/doc-converter/internal/errinfo"
	"github.com/pdiddy/doc-converter/pkg/types"
)

const (
	// DefaultBinary is the markitdown executable looked up on PATH.
	DefaultBinary = "markitdown"
	// DefaultImage is the container image used in container mode.
	DefaultImage = "markitdown:latest"
)

// Job is one file conversion handed to a Tool. Formats are already resolved.
type Job struct {
	Input  string
	Output string
	From   types.Format
	To     types.Format
}

// Tool runs the external conversion program. Different backends (a local
// binary, a container image) implement this interface.
type Tool interface {
	// Name identifies the tool in logs and in the check command.
	Name() string

	// Available returns nil when the tool can be invoked.
	Available(ctx context.Context) error

	// Convert writes job.Output from job.Input. fs is the filesystem the
	// backend staged files on.
	Convert(ctx context.Context, fs afero.Fs, job Job) error
}

// toolFormat maps a Format to the markitdown --format value.
func toolFormat(f types.Format) string {
	if f == types.FormatWord {
		return "docx"
	}
	return "markdown"
}

// runner abstracts command execution for testing.
type runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type osRunner struct{}

func (osRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ExecTool invokes a markitdown binary on the OS filesystem. It must be
// paired with a Backend whose filesystem is afero.NewOsFs.
type ExecTool struct {
	binary string
	run    runner
}

// NewExecTool returns a Tool that runs binary (DefaultBinary when empty).
func NewExecTool(binary string) *ExecTool {
	if binary == "" {
		binary = DefaultBinary
	}
	return &ExecTool{binary: binary, run: osRunner{}}
}

func (t *ExecTool) Name() string { return t.binary }

func (t *ExecTool) Available(ctx context.Context) error {
	if _, _, err := t.run.Run(ctx, t.binary, "--version"); err != nil {
		return newError(errinfo.MarkitdownError, err, "%s --version: %v", t.binary, err)
	}
	return nil
}

func (t *ExecTool) Convert(ctx context.Context, _ afero.Fs, job Job) error {
	stdout, stderr, err := t.run.Run(ctx, t.binary,
		job.Input, "--format", toolFormat(job.To), "-o", job.Output)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return newError(errinfo.ConversionFailed, err,
			"Markitdown conversion failed.\nStderr: %s\nStdout: %s", stderr, stdout)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		// The OS text reads like a missing input file; keep it out of the message.
		return newError(errinfo.MarkitdownError, err,
			"Failed to execute %s: executable not available. Make sure markitdown is installed and available in PATH.", t.binary)
	}
	return newError(errinfo.MarkitdownError, err,
		"Failed to execute %s: %v. Make sure markitdown is installed and available in PATH.", t.binary, err)
}

// ContainerTool pipes the input through a markitdown container image.
type ContainerTool struct {
	rt    container.Runtime
	image string
}

// NewContainerTool returns a Tool that runs image (DefaultImage when empty)
// through rt.
func NewContainerTool(rt container.Runtime, image string) *ContainerTool {
	if image == "" {
		image = DefaultImage
	}
	return &ContainerTool{rt: rt, image: image}
}

func (t *ContainerTool) Name() string {
	return fmt.Sprintf("%s (%s)", t.image, t.rt.Name())
}

func (t *ContainerTool) Available(ctx context.Context) error {
	if err := t.rt.ImageExists(ctx, t.image); err != nil {
		return newError(errinfo.MarkitdownError, err, "markitdown image not available in %s: %v", t.rt.Name(), err)
	}
	return nil
}

func (t *ContainerTool) Convert(ctx context.Context, fs afero.Fs, job Job) error {
	in, err := fs.Open(job.Input)
	if err != nil {
		return newError(errinfo.IOError, err, "opening %s: %v", job.Input, err)
	}
	defer in.Close()

	var out bytes.Buffer
	args := []string{"--format", toolFormat(job.To)}
	if err := t.rt.Run(ctx, t.image, args, in, &out); err != nil {
		return newError(errinfo.ConversionFailed, err,
			"Markitdown conversion failed.\nStderr: %s", strings.TrimSpace(err.Error()))
	}
	if out.Len() == 0 {
		return newError(errinfo.ConversionFailed, nil, "markitdown produced empty output for %s", job.Input)
	}

	if err := afero.WriteFile(fs, job.Output, out.Bytes(), 0o644); err != nil {
		return newError(errinfo.IOError, err, "writing %s: %v", job.Output, err)
	}
	return nil
}
