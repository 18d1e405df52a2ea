// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks candidate files before conversion and produces
// filesystem-safe output names.
package validate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// MaxFileSize is the largest accepted input, 50 MiB.
const MaxFileSize int64 = 50 * 1024 * 1024

// Validator checks files against size, extension, MIME and name rules.
type Validator struct {
	log *logbuf.Logger
}

// New returns a Validator that reports MIME mismatches to log.
// A nil log discards them.
func New(log *logbuf.Logger) *Validator {
	if log == nil {
		log = logbuf.Discard()
	}
	return &Validator{log: log}
}

// File validates info with a Validator that discards warnings.
func File(info types.FileInfo) types.ValidationResult {
	return New(nil).File(info)
}

// File runs the checks in order and stops at the first failure.
// A MIME type outside the allow-list is logged as a warning and never fails
// validation, since operating systems often misreport it.
func (v *Validator) File(info types.FileInfo) types.ValidationResult {
	if info.Size > MaxFileSize {
		return invalid(fmt.Sprintf("File size exceeds maximum limit of %dMB", MaxFileSize/(1024*1024)))
	}

	ext := format.Extension(info.Name)
	if ext == "" {
		return invalid("File must have a valid extension")
	}

	f, ok := format.FromExtension(ext)
	if !ok {
		return invalid(fmt.Sprintf("Unsupported file extension: .%s. Supported formats: .md, .markdown, .docx", ext))
	}

	if info.MIMEType != "" && !slices.Contains(f.MIMETypes(), info.MIMEType) {
		v.log.Warn(fmt.Sprintf("Unexpected MIME type: %s for format %s", info.MIMEType, f), map[string]any{
			"file":      info.Name,
			"mime_type": info.MIMEType,
		})
	}

	if strings.Contains(info.Name, "..") || strings.ContainsAny(info.Name, `/\`) {
		return invalid("Invalid file name. File names cannot contain path separators or relative path indicators.")
	}

	return types.ValidationResult{IsValid: true}
}

func invalid(msg string) types.ValidationResult {
	return types.ValidationResult{IsValid: false, Error: msg}
}
