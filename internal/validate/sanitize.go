// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"strings"

	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// fallbackBase names the output when nothing of the input name survives.
const fallbackBase = "converted"

// traversal collapses each relative-path indicator, together with a
// separator that directly follows it, into one underscore.
var traversal = strings.NewReplacer(`../`, "_", `..\`, "_", "..", "_")

// forbidden replaces characters Windows rejects in file names, one for one.
var forbidden = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// SanitizeFileName returns a filesystem-safe version of name. The result
// never contains "..", path separators or reserved characters, never starts
// with a dot and has no surrounding whitespace. Applying it twice gives the
// same result as applying it once.
func SanitizeFileName(name string) string {
	s := traversal.Replace(name)
	s = forbidden.Replace(s)
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, ".") {
		s = strings.TrimSpace(s[1:])
	}
	return s
}

// SecureOutputName strips the extension of inputName, sanitizes what is
// left and appends the extension of target.
func SecureOutputName(inputName string, target types.Format) string {
	base := SanitizeFileName(format.BaseName(inputName))
	if base == "" {
		base = fallbackBase
	}
	return base + "." + target.Extension()
}
