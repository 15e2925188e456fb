// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/persona-digest/pkg/types"
)

const (
	// largeFontRatio marks a line as emphasised when its font size is at
	// least this multiple of the document's median size.
	largeFontRatio = 1.15

	// wordGapRatio is the horizontal gap, relative to the font size, above
	// which two glyph runs on a row are separated by a space.
	wordGapRatio = 0.15
)

var boldFontMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

// pdfRow is one text row of a page before emphasis is decided.
type pdfRow struct {
	page     int
	y        float64
	text     string
	fontSize float64
	boldFont bool
}

// ReadPDF extracts text rows from a PDF with their font size, font name
// and vertical position, taken from the positioned glyphs of each page. A row is emphasised when most of its glyphs use
// a bold face, or when its font size stands out from the document's
// median size.
func ReadPDF(ctx context.Context, path, documentID string) (lines []types.Line, err error) {
	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("parsing pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var rows []pdfRow
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows = append(rows, convertRows(i, groupRows(p.Content().Text))...)
	}

	return emphasise(documentID, rows), nil
}

// groupRows collects glyphs sharing a baseline, rounded to the point, into
// rows. Glyphs keep their content-stream order within a row.
func groupRows(glyphs []pdf.Text) pdf.Rows {
	var rows pdf.Rows
	byPos := make(map[int64]*pdf.Row)
	for _, g := range glyphs {
		pos := int64(math.Round(g.Y))
		row, ok := byPos[pos]
		if !ok {
			row = &pdf.Row{Position: pos}
			byPos[pos] = row
			rows = append(rows, row)
		}
		row.Content = append(row.Content, g)
	}
	return rows
}

// convertRows joins the glyph runs of each row, top of page first.
func convertRows(page int, rows pdf.Rows) []pdfRow {
	sorted := make(pdf.Rows, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position > sorted[j].Position
	})

	out := make([]pdfRow, 0, len(sorted))
	for _, row := range sorted {
		text, size, bold := joinRow(row.Content)
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, pdfRow{
			page:     page,
			y:        -float64(row.Position),
			text:     text,
			fontSize: size,
			boldFont: bold,
		})
	}
	return out
}

// joinRow concatenates glyph runs left to right and returns the text with
// the dominant font size and whether most glyphs are set in a bold face.
func joinRow(content pdf.TextHorizontal) (string, float64, bool) {
	runs := make([]pdf.Text, len(content))
	copy(runs, content)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var b strings.Builder
	sizes := make(map[float64]int)
	var boldChars, chars int
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > wordGapRatio*t.FontSize && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)

		n := len([]rune(strings.TrimSpace(t.S)))
		sizes[t.FontSize] += n
		chars += n
		if isBoldFont(t.Font) {
			boldChars += n
		}
	}

	var size float64
	best := -1
	for s, n := range sizes {
		if n > best || (n == best && s > size) {
			size, best = s, n
		}
	}
	return strings.Join(strings.Fields(b.String()), " "), size, chars > 0 && 2*boldChars > chars
}

func isBoldFont(name string) bool {
	name = strings.ToLower(name)
	for _, m := range boldFontMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// emphasise turns rows into lines, setting the bold hint for bold faces
// and for rows set noticeably larger than the median font size.
func emphasise(documentID string, rows []pdfRow) []types.Line {
	median := medianFontSize(rows)
	lines := make([]types.Line, 0, len(rows))
	index, page := 0, 0
	for _, r := range rows {
		if r.page != page {
			page, index = r.page, 0
		}
		bold := r.boldFont || (median > 0 && r.fontSize >= largeFontRatio*median)
		lines = append(lines, types.NewLine(documentID, r.page, index, r.y, r.text, r.fontSize, bold))
		index++
	}
	return lines
}

func medianFontSize(rows []pdfRow) float64 {
	var sizes []float64
	for _, r := range rows {
		if r.fontSize > 0 {
			sizes = append(sizes, r.fontSize)
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 0 {
		return (sizes[mid-1] + sizes[mid]) / 2
	}
	return sizes[mid]
}
