// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dest chooses where converted files are saved. Fixed answers from
// command-line flags; Prompt asks on a terminal.
package dest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// Fixed chooses a destination without asking. When Path names an existing
// directory the default name is placed inside it; when Path is empty the
// default name is placed in Dir (the current directory if empty).
type Fixed struct {
	Fs   afero.Fs
	Path string
	Dir  string
}

// ChooseSaveDestination implements the orchestrator's destination chooser.
func (f Fixed) ChooseSaveDestination(ctx context.Context, defaultName string, filter types.SaveFilter) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	fs := f.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if f.Path == "" {
		return filepath.Join(dirOrDot(f.Dir), defaultName), true, nil
	}
	if isDir, _ := afero.IsDir(fs, f.Path); isDir || strings.HasSuffix(f.Path, string(filepath.Separator)) {
		return filepath.Join(f.Path, defaultName), true, nil
	}
	return withExtension(f.Path, filter), true, nil
}

// Prompt asks for a destination on Out and reads the answer from In. An
// empty answer accepts the default; "q" or end of input cancels. Relative
// answers are resolved against Dir.
type Prompt struct {
	In  io.Reader
	Out io.Writer
	Dir string

	scanner *bufio.Scanner
}

// NewPrompt returns a Prompt reading from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer, dir string) *Prompt {
	return &Prompt{In: in, Out: out, Dir: dir}
}

// ChooseSaveDestination implements the orchestrator's destination chooser.
// The read blocks until a line arrives; ctx is checked before prompting.
func (p *Prompt) ChooseSaveDestination(ctx context.Context, defaultName string, filter types.SaveFilter) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}

	def := filepath.Join(dirOrDot(p.Dir), defaultName)
	fmt.Fprintf(p.Out, "Save %s as [%s] (q to cancel): ", describe(filter), def)

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("reading destination: %w", err)
		}
		fmt.Fprintln(p.Out)
		return "", false, nil
	}

	answer := strings.TrimSpace(p.scanner.Text())
	switch {
	case answer == "":
		return def, true, nil
	case strings.EqualFold(answer, "q"):
		return "", false, nil
	case !filepath.IsAbs(answer):
		answer = filepath.Join(dirOrDot(p.Dir), answer)
	}
	return withExtension(answer, filter), true, nil
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// withExtension appends the filter's first extension when path has none
// of the filter's extensions.
func withExtension(path string, filter types.SaveFilter) string {
	if len(filter.Extensions) == 0 {
		return path
	}
	ext := format.Extension(filepath.Base(path))
	for _, want := range filter.Extensions {
		if ext == want {
			return path
		}
	}
	return path + "." + filter.Extensions[0]
}

func describe(filter types.SaveFilter) string {
	if filter.Name == "" {
		return "file"
	}
	return filter.Name
}
