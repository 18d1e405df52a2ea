// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"github.com/pdiddy/doc-converter/internal/errinfo"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// State is a step of a conversion attempt.
type State int

const (
	Idle State = iota
	Validating
	Staging
	Converting
	Cleaning
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Staging:
		return "staging"
	case Converting:
		return "converting"
	case Cleaning:
		return "cleaning"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Progress checkpoints reported to the Observer.
const (
	ProgressValidating = 10
	ProgressResolved   = 20
	ProgressChosen     = 40
	ProgressStaged     = 60
	ProgressConverting = 80
	ProgressDone       = 100
)

// Status is how an attempt ended. The zero value is a failure.
type Status int

const (
	StatusFailure Status = iota
	StatusSuccess
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusFailure:
		return "failure"
	case StatusSuccess:
		return "success"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the terminal value of Run.
type Outcome struct {
	Status Status

	// Message is the text shown to the user. On success and on bridge
	// failures it is the bridge's message, unmodified.
	Message string

	// Result is the bridge's result, present once the conversion ran.
	Result    types.ConversionResult
	Converted bool

	// Report describes a failure. Nil on success and on cancellation.
	Report *errinfo.Report

	// Request is the request handed to the bridge, when one was built.
	Request types.ConversionRequest

	// OutputName is the proposed output file name.
	OutputName string
}

// Succeeded reports whether the conversion produced its output.
func (o Outcome) Succeeded() bool { return o.Status == StatusSuccess }

// Cancelled reports whether the user aborted the attempt.
func (o Outcome) Cancelled() bool { return o.Status == StatusCancelled }
