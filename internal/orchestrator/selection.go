// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"fmt"
	"mime"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/pkg/types"
)

func init() {
	// Platform MIME tables rarely know these two.
	_ = mime.AddExtensionType(".md", "text/markdown")
	_ = mime.AddExtensionType(".markdown", "text/markdown")
}

// Selection is the file the user picked and the requested target.
type Selection struct {
	File types.FileInfo

	// Target is the requested output format. Empty selects the other format.
	Target types.Format

	// Data holds the file contents when they are already in memory.
	// Otherwise File.Path is read from Fs when staging.
	Data []byte
	Fs   afero.Fs
}

// SelectPath describes the file at path on fs. The MIME type is derived
// from the extension and is advisory only.
func SelectPath(fs afero.Fs, path string) (Selection, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return Selection{}, fmt.Errorf("selecting %s: %w", path, err)
	}
	if info.IsDir() {
		return Selection{}, fmt.Errorf("selecting %s: is a directory, not a file path", path)
	}
	name := filepath.Base(path)
	return Selection{
		File: types.FileInfo{
			Name:     name,
			Path:     path,
			Size:     info.Size(),
			MIMEType: mimeType(name),
		},
		Fs: fs,
	}, nil
}

// mimeType returns the bare media type registered for name's extension.
func mimeType(name string) string {
	t := mime.TypeByExtension("." + format.Extension(name))
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

// WithTarget returns a copy of s converting to target.
func (s Selection) WithTarget(target types.Format) Selection {
	s.Target = target
	return s
}

func (s Selection) read() ([]byte, error) {
	if s.Data != nil {
		return s.Data, nil
	}
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return afero.ReadFile(fs, s.File.Path)
}
