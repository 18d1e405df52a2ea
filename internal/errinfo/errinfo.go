// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errinfo classifies conversion failures into a closed set of codes
// and turns them into user-facing messages and troubleshooting tips.
package errinfo

import (
	"errors"
	"strings"
	"time"
)

// Code is a failure category. The set is closed.
type Code string

const (
	FileNotFound      Code = "FILE_NOT_FOUND"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	ConversionFailed  Code = "CONVERSION_FAILED"
	IOError           Code = "IO_ERROR"
	MarkitdownError   Code = "MARKITDOWN_ERROR"
	InvalidPath       Code = "INVALID_PATH"
	ValidationError   Code = "VALIDATION_ERROR"
	NetworkError      Code = "NETWORK_ERROR"
	UnknownError      Code = "UNKNOWN_ERROR"
)

// Codes returns every code in declaration order.
func Codes() []Code {
	return []Code{
		FileNotFound, UnsupportedFormat, ConversionFailed, IOError,
		MarkitdownError, InvalidPath, ValidationError, NetworkError, UnknownError,
	}
}

// Coder is implemented by errors that already know their category.
type Coder interface {
	ErrorCode() Code
}

// Info describes one observed failure. It is not modified after New.
type Info struct {
	Code      Code           `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   string         `json:"details,omitempty" yaml:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Context   map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

// now is the clock used by New; tests replace it.
var now = time.Now

// New builds an Info stamped with the current time.
func New(code Code, message, details string, context map[string]any) Info {
	return Info{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: now(),
		Context:   context,
	}
}

// rule maps any of its keywords to a code. Rules are tried in order and
// the first match wins.
type rule struct {
	code     Code
	keywords []string
}

var rules = []rule{
	{FileNotFound, []string{"file not found", "enoent", "no such file"}},
	{UnsupportedFormat, []string{"unsupported format", "invalid format"}},
	{ConversionFailed, []string{"conversion failed"}},
	{MarkitdownError, []string{"markitdown"}},
	{InvalidPath, []string{"invalid path", "path"}},
	{ValidationError, []string{"validation"}},
	{NetworkError, []string{"network", "fetch"}},
}

// Classify returns the category of err. A Coder anywhere in the chain wins;
// otherwise the message is matched against the keyword rules. A nil error
// is UnknownError.
func Classify(err error) Code {
	if err == nil {
		return UnknownError
	}
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage applies the keyword rules to a display message.
func ClassifyMessage(msg string) Code {
	lower := strings.ToLower(msg)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.code
			}
		}
	}
	return UnknownError
}

// ClassifyValue accepts any value. Only errors are classified; everything
// else, nil included, is UnknownError.
func ClassifyValue(v any) Code {
	if err, ok := v.(error); ok {
		return Classify(err)
	}
	return UnknownError
}

// MessageOf extracts a display message from an arbitrary value.
func MessageOf(v any) string {
	switch x := v.(type) {
	case error:
		return x.Error()
	case string:
		return x
	default:
		return "An unknown error occurred"
	}
}
