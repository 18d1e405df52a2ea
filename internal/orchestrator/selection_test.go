// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-converter/pkg/types"
)

func TestSelectPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/report.md", []byte("# Report"), 0o644))

	sel, err := SelectPath(fs, "/docs/report.md")
	require.NoError(t, err)
	assert.Equal(t, "report.md", sel.File.Name)
	assert.Equal(t, "/docs/report.md", sel.File.Path)
	assert.Equal(t, int64(8), sel.File.Size)
	assert.Equal(t, "text/markdown", sel.File.MIMEType)

	data, err := sel.read()
	require.NoError(t, err)
	assert.Equal(t, "# Report", string(data))
}

func TestSelectPathErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/docs", 0o755))

	_, err := SelectPath(fs, "/docs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	_, err = SelectPath(fs, "/docs/missing.md")
	require.Error(t, err)
}

func TestSelectionWithTarget(t *testing.T) {
	sel := Selection{File: types.FileInfo{Name: "a.md"}}
	other := sel.WithTarget(types.FormatWord)
	assert.Equal(t, types.FormatWord, other.Target)
	assert.Empty(t, sel.Target)
}

func TestMIMETypeUnknownExtension(t *testing.T) {
	assert.Empty(t, mimeType("noext"))
}
