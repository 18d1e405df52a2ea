// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package errinfo

import "fmt"

var templates = map[Code]string{
	FileNotFound:      "File not found: %s. Please check that the file exists and you have permission to access it.",
	UnsupportedFormat: "Unsupported file format: %s. Please use a supported format (.md, .markdown, or .docx).",
	ConversionFailed:  "Conversion failed: %s. This might be due to a corrupted file or unsupported content.",
	MarkitdownError:   "Conversion tool error: %s. Please ensure markitdown is properly installed.",
	ValidationError:   "File validation failed: %s",
	IOError:           "File system error: %s. Please check file permissions and available disk space.",
	InvalidPath:       "Invalid file path: %s. Please choose a valid location for the output file.",
	NetworkError:      "Network error: %s. Please check your internet connection.",
}

// FormatForUser renders info as a sentence for the error panel. Codes
// without a template return the raw message.
func FormatForUser(info Info) string {
	tmpl, ok := templates[info.Code]
	if !ok {
		return info.Message
	}
	return fmt.Sprintf(tmpl, info.Message)
}

var tips = map[Code][]string{
	FileNotFound: {
		"Verify the file exists at the specified location",
		"Check that you have read permissions for the file",
		"Ensure the file is not locked by another application",
	},
	UnsupportedFormat: {
		"Use only supported formats: .md, .markdown, or .docx",
		"Check that the file extension matches the actual file type",
		"Ensure the file is not corrupted",
	},
	ConversionFailed: {
		"Try converting a different file to isolate the issue",
		"Check that the input file is not password-protected",
		"Ensure the file content is valid for its format",
		"Verify you have write permissions to the output directory",
	},
	MarkitdownError: {
		"Install markitdown: pip install markitdown",
		"Ensure markitdown is available in your system PATH",
		"Try running markitdown --version in a terminal",
		"Restart the application after installing markitdown",
	},
	ValidationError: {
		"Check that the file size is under 50MB",
		"Ensure the filename contains only valid characters",
		"Verify the file is not corrupted",
	},
	IOError: {
		"Check available disk space",
		"Verify write permissions to the output directory",
		"Ensure the output path is valid",
		"Try selecting a different output location",
	},
	InvalidPath: {
		"Choose an output location inside a directory you can write to",
		"Avoid path separators and reserved characters in the file name",
		"Ensure the output directory exists or can be created",
	},
	NetworkError: {
		"Check your internet connection",
		"If the tool runs in a container, verify the container runtime can reach the network",
		"Retry the conversion once the connection is restored",
	},
}

var defaultTips = []string{
	"Try restarting the application",
	"Check that all dependencies are properly installed",
	"Verify your system meets the minimum requirements",
}

// TroubleshootingTips returns the remediation steps for code, in order.
// The returned slice is a copy.
func TroubleshootingTips(code Code) []string {
	list, ok := tips[code]
	if !ok {
		list = defaultTips
	}
	return append([]string(nil), list...)
}

// Report is everything the error panel shows for one failure.
type Report struct {
	Info        Info     `json:"info" yaml:"info"`
	UserMessage string   `json:"user_message" yaml:"user_message"`
	Tips        []string `json:"tips" yaml:"tips"`
}

// NewReport builds a Report for code and message.
func NewReport(code Code, message string, context map[string]any) Report {
	info := New(code, message, "", context)
	return Report{
		Info:        info,
		UserMessage: FormatForUser(info),
		Tips:        TroubleshootingTips(code),
	}
}

// FromError classifies err and builds its Report.
func FromError(err error, context map[string]any) Report {
	return NewReport(Classify(err), MessageOf(err), context)
}

// FromMessage classifies a display message and builds its Report.
func FromMessage(msg string, context map[string]any) Report {
	return NewReport(ClassifyMessage(msg), msg, context)
}
