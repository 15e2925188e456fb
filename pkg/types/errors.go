// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

var (
	// ErrSourceRead marks a document the text source could not read. The
	// document is skipped and contributes no sections.
	ErrSourceRead = errors.New("source read failed")

	// ErrUnsupportedFormat marks a document whose extension no text source handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrMalformedLines marks a line sequence that is out of order or
	// belongs to another document.
	ErrMalformedLines = errors.New("malformed line sequence")

	// ErrNoSections marks a document or batch that produced no sections.
	ErrNoSections = errors.New("no sections")

	// ErrEmptyQuery marks a persona/job pair that produced no keywords.
	ErrEmptyQuery = errors.New("query produced no keywords")

	// ErrMalformedInput marks a request that is missing required fields.
	// It is the only error that stops a run before the pipeline starts.
	ErrMalformedInput = errors.New("malformed input")
)

// WarningKind classifies a non-fatal condition recorded during a run.
type WarningKind string

const (
	WarningSourceRead     WarningKind = "source_read"
	WarningMalformedLines WarningKind = "malformed_lines"
	WarningNoSections     WarningKind = "no_sections"
	WarningEmptyQuery     WarningKind = "empty_query"
)

// Warning is a non-fatal condition surfaced in the result metadata.
type Warning struct {
	Kind     WarningKind `json:"kind" yaml:"kind"`
	Document string      `json:"document,omitempty" yaml:"document,omitempty"`
	Message  string      `json:"message" yaml:"message"`
}
