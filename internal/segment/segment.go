// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment partitions a document's line stream into titled sections
// using typographic and positional heuristics.
//
// A line is a title candidate when it is short (at most MaxTitleWords
// words) and either fully upper-cased, or bold and visually isolated:
// the vertical gaps above and below it are at least MinSpacingRatio times
// the typical gap between body lines, or it sits on a page edge.
//
// Every title candidate opens a section whose body runs to the next title
// candidate. The segmentation is a partition: each input line lands in
// exactly one section, either as a heading line or as a body line.
//
//   - Lines before the first title form an implicit untitled section.
//   - Consecutive title candidates collapse into one multi-line heading;
//     the last of them becomes the section title.
//   - Title candidates after the last body line are appended to the
//     previous section's body. A document made only of title candidates
//     becomes a single untitled section.
package segment

import (
	"fmt"
	"sort"

	"github.com/pdiddy/persona-digest/internal/textutil"
	"github.com/pdiddy/persona-digest/pkg/types"
)

// Segment splits lines, which must all belong to documentID and be ordered
// by page then index, into sections. An empty sequence yields no sections
// and no error. A malformed sequence yields no sections and an error
// wrapping types.ErrMalformedLines; callers report it and continue.
func Segment(documentID string, lines []types.Line, cfg types.SegmentConfig) ([]types.Section, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	if err := validate(documentID, lines); err != nil {
		return nil, err
	}

	titles := TitleCandidates(lines, cfg)

	type span struct {
		heading []types.Line
		body    []types.Line
	}
	var spans []span
	var cur span

	for i, l := range lines {
		if !titles[i] {
			cur.body = append(cur.body, l)
			continue
		}
		if len(cur.body) > 0 {
			spans = append(spans, cur)
			cur = span{}
		}
		cur.heading = append(cur.heading, l)
	}

	switch {
	case len(cur.body) > 0:
		spans = append(spans, cur)
	case len(spans) > 0:
		last := &spans[len(spans)-1]
		last.body = append(last.body, cur.heading...)
	default:
		spans = append(spans, span{body: cur.heading})
	}

	sections := make([]types.Section, len(spans))
	for i, sp := range spans {
		sections[i] = newSection(documentID, sp.heading, sp.body, cfg)
	}
	return sections, nil
}

// TitleCandidates classifies each line of one document. It is a pure
// function of the lines' typographic features.
func TitleCandidates(lines []types.Line, cfg types.SegmentConfig) []bool {
	typical := typicalGap(lines)
	out := make([]bool, len(lines))
	for i, l := range lines {
		if l.WordCount == 0 || l.WordCount > cfg.MaxTitleWords {
			continue
		}
		if l.Upper {
			out[i] = true
			continue
		}
		if l.Bold && isolated(lines, i, typical, cfg.MinSpacingRatio) {
			out[i] = true
		}
	}
	return out
}

// isolated reports whether line i has extra vertical space above and below.
// Page edges count as space.
func isolated(lines []types.Line, i int, typical, ratio float64) bool {
	spaced := func(gap float64) bool {
		if typical <= 0 {
			return gap > 0
		}
		return gap >= typical*ratio
	}

	l := lines[i]
	if i > 0 && lines[i-1].Page == l.Page && !spaced(l.Y-lines[i-1].Y) {
		return false
	}
	if i+1 < len(lines) && lines[i+1].Page == l.Page && !spaced(lines[i+1].Y-l.Y) {
		return false
	}
	return true
}

// typicalGap is the median positive gap between consecutive body lines of
// the same page. Gaps touching a bold line are left out, so the space
// around headings never sets the baseline they are measured against. It
// is 0 when no such gap exists, in which case any gap counts as isolation.
func typicalGap(lines []types.Line) float64 {
	var gaps []float64
	for i := 1; i < len(lines); i++ {
		prev, cur := lines[i-1], lines[i]
		if cur.Page != prev.Page || cur.Bold || prev.Bold {
			continue
		}
		if g := cur.Y - prev.Y; g > 0 {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	sort.Float64s(gaps)
	mid := len(gaps) / 2
	if len(gaps)%2 == 0 {
		return (gaps[mid-1] + gaps[mid]) / 2
	}
	return gaps[mid]
}

func validate(documentID string, lines []types.Line) error {
	for i, l := range lines {
		if l.DocumentID != "" && l.DocumentID != documentID {
			return fmt.Errorf("%w: line %d belongs to %q, not %q", types.ErrMalformedLines, i, l.DocumentID, documentID)
		}
		if l.Page < 1 {
			return fmt.Errorf("%w: line %d has page %d", types.ErrMalformedLines, i, l.Page)
		}
		if i == 0 {
			continue
		}
		prev := lines[i-1]
		if l.Page < prev.Page || (l.Page == prev.Page && l.Index <= prev.Index) {
			return fmt.Errorf("%w: line %d (page %d, index %d) follows page %d, index %d",
				types.ErrMalformedLines, i, l.Page, l.Index, prev.Page, prev.Index)
		}
	}
	return nil
}

func newSection(documentID string, heading, body []types.Line, cfg types.SegmentConfig) types.Section {
	s := types.Section{
		DocumentID: documentID,
		Heading:    heading,
		Body:       body,
	}
	if len(heading) > 0 {
		s.Title = heading[len(heading)-1].Text
		s.StartPage = heading[0].Page
	} else {
		s.Title = cfg.UntitledTitle
		s.Untitled = true
		s.StartPage = body[0].Page
	}
	s.EndPage = body[len(body)-1].Page

	for _, l := range body {
		s.WordCount += textutil.CountWords(l.Text)
	}
	s.VocabularyDiversity = textutil.Diversity(textutil.Tokens(s.Text()))
	return s
}
