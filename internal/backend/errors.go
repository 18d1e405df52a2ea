// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"fmt"

	"github.com/pdiddy/doc-converter/internal/errinfo"
)

// Error is a backend failure tagged with its error code. The classifier
// reads the code directly instead of matching on the message.
type Error struct {
	Code    errinfo.Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Code {
	case errinfo.FileNotFound:
		return "File not found: " + e.Message
	case errinfo.UnsupportedFormat:
		return "Unsupported file format: " + e.Message
	case errinfo.ConversionFailed:
		return "Conversion failed: " + e.Message
	case errinfo.IOError:
		return "IO error: " + e.Message
	case errinfo.MarkitdownError:
		return "Markitdown command failed: " + e.Message
	case errinfo.InvalidPath:
		return "Invalid file path: " + e.Message
	default:
		return e.Message
	}
}

// ErrorCode implements errinfo.Coder.
func (e *Error) ErrorCode() errinfo.Code { return e.Code }

func (e *Error) Unwrap() error { return e.Err }

func newError(code errinfo.Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}
