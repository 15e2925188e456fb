// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the value types shared by the persona-digest pipeline:
// lines produced by text sources, sections produced by the segmenter, the
// persona/job query, ranked sections and their summaries, and the request and
// result contracts exchanged with callers.
//
// All values are treated as immutable once constructed. Sections reference
// their owning document by ID only.
package types

import (
	"strings"
	"unicode"
)

// Line is one line of text emitted by a text source, in reading order.
type Line struct {
	// DocumentID identifies the owning document (the input filename).
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Page is the 1-based page number.
	Page int `json:"page" yaml:"page"`

	// Index is the 0-based position of the line within its page.
	Index int `json:"index" yaml:"index"`

	// Y is the top-down vertical offset of the line on its page. Only
	// differences between lines of the same page are meaningful.
	Y float64 `json:"y" yaml:"y"`

	// Text is the line content with surrounding whitespace removed.
	Text string `json:"text" yaml:"text"`

	// FontSize is the dominant font size, or 0 when the source has none.
	FontSize float64 `json:"font_size,omitempty" yaml:"font_size,omitempty"`

	// Bold reports a bold or otherwise emphasised typeface.
	Bold bool `json:"bold,omitempty" yaml:"bold,omitempty"`

	// Upper reports that every letter in Text is upper case.
	Upper bool `json:"upper,omitempty" yaml:"upper,omitempty"`

	// WordCount is the number of whitespace-separated words in Text.
	WordCount int `json:"word_count" yaml:"word_count"`
}

// NewLine builds a Line and derives its Upper and WordCount flags from text.
func NewLine(documentID string, page, index int, y float64, text string, fontSize float64, bold bool) Line {
	text = strings.TrimSpace(text)
	return Line{
		DocumentID: documentID,
		Page:       page,
		Index:      index,
		Y:          y,
		Text:       text,
		FontSize:   fontSize,
		Bold:       bold,
		Upper:      IsUpper(text),
		WordCount:  len(strings.Fields(text)),
	}
}

// IsUpper reports whether s has at least one letter and no lower-case letters.
func IsUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters > 0
}
