// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Section is a titled, contiguous run of a document's lines.
type Section struct {
	// Title is the text of the last title line before the body, or the
	// configured untitled label for an implicit leading section.
	Title string `json:"title" yaml:"title"`

	// DocumentID identifies the owning document.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// StartPage is the page of the first line of the section.
	StartPage int `json:"start_page" yaml:"start_page"`

	// EndPage is the page of the last line of the section.
	EndPage int `json:"end_page" yaml:"end_page"`

	// Untitled marks a section that was not opened by a title line.
	Untitled bool `json:"untitled,omitempty" yaml:"untitled,omitempty"`

	// Heading holds the title lines that opened the section, in order.
	// Consecutive title candidates collapse into one multi-line heading.
	Heading []Line `json:"heading,omitempty" yaml:"heading,omitempty"`

	// Body holds the non-title lines. It is never empty.
	Body []Line `json:"body" yaml:"body"`

	// WordCount is the number of words in the body.
	WordCount int `json:"word_count" yaml:"word_count"`

	// VocabularyDiversity is unique tokens / total tokens of the body.
	VocabularyDiversity float64 `json:"vocabulary_diversity" yaml:"vocabulary_diversity"`
}

// Lines returns heading and body lines in document order.
func (s Section) Lines() []Line {
	out := make([]Line, 0, len(s.Heading)+len(s.Body))
	out = append(out, s.Heading...)
	return append(out, s.Body...)
}

// Text returns the body lines joined by single spaces.
func (s Section) Text() string {
	parts := make([]string, 0, len(s.Body))
	for _, l := range s.Body {
		if l.Text != "" {
			parts = append(parts, l.Text)
		}
	}
	return strings.Join(parts, " ")
}

// ScoreComponents breaks a relevance score into its weighted terms.
type ScoreComponents struct {
	TitleOverlap float64 `json:"title_overlap" yaml:"title_overlap"`
	BodyOverlap  float64 `json:"body_overlap" yaml:"body_overlap"`
	Length       float64 `json:"length" yaml:"length"`
	Diversity    float64 `json:"diversity" yaml:"diversity"`
}

// ScoredSection is a Section with its relevance score and global rank.
type ScoredSection struct {
	Section    Section         `json:"section" yaml:"section"`
	Score      float64         `json:"score" yaml:"score"`
	Components ScoreComponents `json:"components" yaml:"components"`

	// Rank is 1 for the most relevant section across all documents.
	Rank int `json:"rank" yaml:"rank"`
}

// Summary is the extractive refinement of one top-ranked section.
type Summary struct {
	Section   ScoredSection `json:"section" yaml:"section"`
	Sentences []string      `json:"sentences" yaml:"sentences"`
}

// Text joins the selected sentences with single spaces.
func (s Summary) Text() string {
	return strings.Join(s.Sentences, " ")
}
