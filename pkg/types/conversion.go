// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FileInfo describes a file the user picked for conversion.
type FileInfo struct {
	// Name is the base file name as the user sees it (e.g. "report.md").
	Name string `json:"name" yaml:"name"`

	// Path is the local filesystem path, when the file lives on disk.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// MIMEType is the declared MIME type, possibly empty or wrong.
	MIMEType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
}

// ValidationResult is the outcome of validating a FileInfo.
type ValidationResult struct {
	IsValid bool   `json:"is_valid" yaml:"is_valid"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ConversionRequest is handed to the conversion backend once per attempt.
type ConversionRequest struct {
	InputPath    string `json:"input_path" yaml:"input_path"`
	OutputPath   string `json:"output_path" yaml:"output_path"`
	InputFormat  Format `json:"input_format,omitempty" yaml:"input_format,omitempty"`
	OutputFormat Format `json:"output_format,omitempty" yaml:"output_format,omitempty"`
}

// ConversionResult is returned by the conversion backend. Callers forward it
// without modification.
type ConversionResult struct {
	Success    bool   `json:"success" yaml:"success"`
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Message    string `json:"message" yaml:"message"`
	// Code is the error code of a failed result, when the backend knows it.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`
}

// SaveFilter restricts the files a save dialog offers, for example
// {Name: "Word Document", Extensions: ["docx"]}.
type SaveFilter struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}
