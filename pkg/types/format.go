// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Format identifies one of the two document formats the converter handles.
// The value is the canonical file extension.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatWord     Format = "docx"
)

// Formats returns every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatWord}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f == FormatMarkdown || f == FormatWord
}

// Extension returns the canonical file extension without the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatWord:
		return "docx"
	default:
		return "txt"
	}
}

// DisplayName returns the human-readable format name.
func (f Format) DisplayName() string {
	switch f {
	case FormatMarkdown:
		return "Markdown"
	case FormatWord:
		return "Word Document"
	default:
		return "Unknown"
	}
}

// MIMETypes returns the MIME types accepted for f. Reported MIME types are
// advisory; see validate.File.
func (f Format) MIMETypes() []string {
	switch f {
	case FormatMarkdown:
		return []string{"text/markdown", "text/plain"}
	case FormatWord:
		return []string{
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-word.document.macroEnabled.12",
		}
	default:
		return nil
	}
}

// Other returns the complementary format. There are exactly two formats,
// so the default conversion target is a toggle.
func (f Format) Other() Format {
	if f == FormatMarkdown {
		return FormatWord
	}
	return FormatMarkdown
}

// SupportedFormat describes a format for listings.
type SupportedFormat struct {
	Name        string `json:"name" yaml:"name"`
	Extension   string `json:"extension" yaml:"extension"`
	Description string `json:"description" yaml:"description"`
}
