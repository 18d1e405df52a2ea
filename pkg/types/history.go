// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionRecord is one finished conversion attempt as kept in history.
type ConversionRecord struct {
	ID           int64         `json:"id" yaml:"id"`
	InputName    string        `json:"input_name" yaml:"input_name"`
	InputFormat  Format        `json:"input_format,omitempty" yaml:"input_format,omitempty"`
	OutputFormat Format        `json:"output_format,omitempty" yaml:"output_format,omitempty"`
	OutputPath   string        `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Status       string        `json:"status" yaml:"status"`
	Code         string        `json:"code,omitempty" yaml:"code,omitempty"`
	Message      string        `json:"message" yaml:"message"`
	StartedAt    time.Time     `json:"started_at" yaml:"started_at"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}
