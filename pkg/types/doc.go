// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for doc-converter.
// Formats, conversion requests and results, and configuration live here so
// the validator, backend, orchestrator and front-ends agree on one shape.
package types
