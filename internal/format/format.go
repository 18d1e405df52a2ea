// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format maps file names to document formats and derives the
// output name and direction of a conversion.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/doc-converter/pkg/types"
)

// Extension returns the lower-cased text after the last dot in name, or ""
// when name has no dot.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// FromExtension maps a bare extension (with or without the leading dot) to
// a format. "markdown" normalizes to FormatMarkdown.
func FromExtension(ext string) (types.Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "md", "markdown":
		return types.FormatMarkdown, true
	case "docx":
		return types.FormatWord, true
	default:
		return "", false
	}
}

// FromName resolves the format of a file from its name.
func FromName(name string) (types.Format, bool) {
	return FromExtension(Extension(name))
}

// DefaultTarget returns the conversion target used when the user has not
// picked one: the other format.
func DefaultTarget(in types.Format) types.Format {
	return in.Other()
}

// BaseName strips a trailing ".ext" from name. Dots inside path separators
// do not count as an extension.
func BaseName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 || strings.ContainsAny(name[i+1:], `/.`) {
		return name
	}
	return name[:i]
}

// OutputFileName replaces the extension of inputName with target's.
func OutputFileName(inputName string, target types.Format) string {
	return BaseName(inputName) + "." + target.Extension()
}

// Supported returns the descriptors of every supported format.
func Supported() []types.SupportedFormat {
	return []types.SupportedFormat{
		{Name: types.FormatMarkdown.DisplayName(), Extension: "md", Description: "Markdown text files"},
		{Name: types.FormatWord.DisplayName(), Extension: "docx", Description: "Microsoft Word documents"},
	}
}

// Conversion is one supported direction.
type Conversion struct {
	From types.Format
	To   types.Format
}

// Conversions lists the supported directions.
func Conversions() []Conversion {
	return []Conversion{
		{From: types.FormatMarkdown, To: types.FormatWord},
		{From: types.FormatWord, To: types.FormatMarkdown},
	}
}

// Supports reports whether from→to is a supported conversion.
func Supports(from, to types.Format) bool {
	for _, c := range Conversions() {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

// FileSize renders a byte count as "0 Bytes", "1.5 KB", "2 MB", and so on.
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizes[i]
}

// SaveFilter returns the save dialog filter for files of format f.
func SaveFilter(f types.Format) types.SaveFilter {
	return types.SaveFilter{Name: f.DisplayName(), Extensions: []string{f.Extension()}}
}
