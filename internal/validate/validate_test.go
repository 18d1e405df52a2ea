// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/pkg/types"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestFile(t *testing.T) {
	tests := []struct {
		name    string
		info    types.FileInfo
		wantOK  bool
		wantErr string
	}{
		{
			name:   "markdown file",
			info:   types.FileInfo{Name: "test.md", Size: 1000, MIMEType: "text/markdown"},
			wantOK: true,
		},
		{
			name:   "markdown long extension",
			info:   types.FileInfo{Name: "notes.markdown", Size: 1000},
			wantOK: true,
		},
		{
			name:   "word file",
			info:   types.FileInfo{Name: "test.docx", Size: 1000, MIMEType: docxMIME},
			wantOK: true,
		},
		{
			name:   "exactly at the size limit",
			info:   types.FileInfo{Name: "big.md", Size: MaxFileSize},
			wantOK: true,
		},
		{
			name:    "too large",
			info:    types.FileInfo{Name: "test.md", Size: MaxFileSize + 1},
			wantErr: "exceeds maximum limit of 50MB",
		},
		{
			name:    "no extension",
			info:    types.FileInfo{Name: "test", Size: 1000},
			wantErr: "valid extension",
		},
		{
			name:    "unsupported extension",
			info:    types.FileInfo{Name: "test.txt", Size: 1000},
			wantErr: "Unsupported file extension: .txt",
		},
		{
			name:    "relative path indicator",
			info:    types.FileInfo{Name: "../test.md", Size: 1000},
			wantErr: "Invalid file name",
		},
		{
			name:    "forward slash",
			info:    types.FileInfo{Name: "folder/test.md", Size: 1000},
			wantErr: "Invalid file name",
		},
		{
			name:    "backslash",
			info:    types.FileInfo{Name: `folder\test.docx`, Size: 1000},
			wantErr: "Invalid file name",
		},
		{
			name:    "double dot inside name",
			info:    types.FileInfo{Name: "a..b.md", Size: 1000},
			wantErr: "Invalid file name",
		},
		{
			name:    "size checked before name",
			info:    types.FileInfo{Name: "../test.md", Size: MaxFileSize + 1},
			wantErr: "exceeds maximum limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := File(tt.info)
			assert.Equal(t, tt.wantOK, got.IsValid)
			if tt.wantErr != "" {
				assert.Contains(t, got.Error, tt.wantErr)
			} else {
				assert.Empty(t, got.Error)
			}
		})
	}
}

func TestFileSizeBoundary(t *testing.T) {
	for _, size := range []int64{0, 1, MaxFileSize - 1, MaxFileSize, MaxFileSize + 1, 1 << 40} {
		got := File(types.FileInfo{Name: "x.md", Size: size})
		assert.Equal(t, size <= 52428800, got.IsValid, "size %d", size)
	}
}

func TestFileMIMEMismatchWarnsOnly(t *testing.T) {
	log := logbuf.New()
	v := New(log)

	got := v.File(types.FileInfo{Name: "report.md", Size: 10, MIMEType: "application/octet-stream"})
	assert.True(t, got.IsValid)

	warnings := log.Logs(logbuf.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "Unexpected MIME type: application/octet-stream")
	assert.Equal(t, "report.md", warnings[0].Context["file"])
}

func TestFileMatchingOrEmptyMIMEDoesNotWarn(t *testing.T) {
	log := logbuf.New()
	v := New(log)

	v.File(types.FileInfo{Name: "report.md", Size: 10, MIMEType: "text/plain"})
	v.File(types.FileInfo{Name: "report.docx", Size: 10})
	v.File(types.FileInfo{Name: "report.docx", Size: 10, MIMEType: docxMIME})

	assert.Empty(t, log.Logs(logbuf.LevelWarn))
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`test<>:"/\|?*.md`, "test_________.md"},
		{"..test.md", "_test.md"},
		{".hidden.md", "hidden.md"},
		{"  test.md  ", "test.md"},
		{"../etc/passwd", "_etc_passwd"},
		{`..\windows`, "_windows"},
		{"...", "_."},
		{". .x", "x"},
		{"plain.md", "plain.md"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestSanitizeFileNameIdempotent(t *testing.T) {
	inputs := []string{
		`test<>:"/\|?*.md`, "..test.md", ".hidden.md", "  .. x ..  ",
		"....", ". . .", "a/../b", `C:\Users\me\doc.docx`, " \t.md", "report.md",
	}
	for _, in := range inputs {
		once := SanitizeFileName(in)
		assert.Equal(t, once, SanitizeFileName(once), "input %q", in)
	}
}

func TestSecureOutputName(t *testing.T) {
	tests := []struct {
		in     string
		target types.Format
		want   string
	}{
		{"test.docx", types.FormatMarkdown, "test.md"},
		{"test.md", types.FormatWord, "test.docx"},
		{"../dangerous<>.docx", types.FormatMarkdown, "_dangerous__.md"},
		{".md", types.FormatWord, "converted.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureOutputName(tt.in, tt.target))
		})
	}
}
