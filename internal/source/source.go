// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source turns documents on disk into the ordered line streams the
// segmenter consumes. Each format has its own reader; Dir dispatches on the
// file extension.
//
// Formats without typography (plain text, Markdown, DOCX) mark the lines
// they recognise as headings with the bold hint and surround them with
// extra vertical space, so the segmenter's isolation rule applies to them
// the same way it does to PDF headings.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/persona-digest/pkg/types"
)

const (
	// lineHeight is the synthetic vertical advance between consecutive
	// lines of formats that carry no layout.
	lineHeight = 12.0

	// headingGap is the extra space placed above and below a heading line
	// of such formats.
	headingGap = 2 * lineHeight
)

// Source produces the lines of one document in reading order.
type Source interface {
	// Lines returns every non-empty line of the document identified by
	// documentID, ordered by page then position. Errors wrap
	// types.ErrSourceRead or types.ErrUnsupportedFormat.
	Lines(ctx context.Context, documentID string) ([]types.Line, error)
}

// Reader extracts lines from one file. documentID is stamped on every line.
type Reader func(ctx context.Context, path, documentID string) ([]types.Line, error)

// Readers maps lower-case file extensions to their readers.
var Readers = map[string]Reader{
	".pdf":      ReadPDF,
	".txt":      ReadText,
	".text":     ReadText,
	".md":       ReadMarkdown,
	".markdown": ReadMarkdown,
	".docx":     ReadDOCX,
}

// Dir resolves document IDs as file names under Path.
type Dir struct {
	Path string
}

// NewDir returns a Dir rooted at path.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

// Lines implements Source.
func (d *Dir) Lines(ctx context.Context, documentID string) ([]types.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrSourceRead, documentID, err)
	}

	path := d.resolve(documentID)
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := Readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s (extension %q)", types.ErrUnsupportedFormat, documentID, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrSourceRead, documentID, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", types.ErrSourceRead, documentID)
	}

	lines, err := read(ctx, path, documentID)
	if err != nil {
		if errors.Is(err, types.ErrSourceRead) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", types.ErrSourceRead, documentID, err)
	}
	return lines, nil
}

// Documents lists the file names under Path that have a registered reader,
// in lexical order.
func (d *Dir) Documents() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.Path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := Readers[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (d *Dir) resolve(documentID string) string {
	if filepath.IsAbs(documentID) || d.Path == "" {
		return documentID
	}
	return filepath.Join(d.Path, documentID)
}

// layout assigns synthetic positions to the blocks of a format without
// typography. Headings get extra space on both sides.
type layout struct {
	documentID string
	page       int
	index      int
	y          float64
	lines      []types.Line
}

func newLayout(documentID string) *layout {
	return &layout{documentID: documentID, page: 1}
}

// text appends every non-empty line of s as body text.
func (l *layout) text(s string) {
	for _, raw := range strings.Split(s, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		l.add(raw, false)
	}
}

// heading appends s as a single emphasised line.
func (l *layout) heading(s string) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return
	}
	l.y += headingGap
	l.add(s, true)
	l.y += headingGap
}

// blank records vertical space without emitting a line.
func (l *layout) blank() {
	l.y += lineHeight
}

// newPage starts the next page.
func (l *layout) newPage() {
	l.page++
	l.index = 0
	l.y = 0
}

func (l *layout) add(text string, bold bool) {
	l.y += lineHeight
	l.lines = append(l.lines, types.NewLine(l.documentID, l.page, l.index, l.y, text, 0, bold))
	l.index++
}
