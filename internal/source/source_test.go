// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-digest/internal/segment"
	"github.com/pdiddy/persona-digest/pkg/types"
)

// writeFile creates name under dir with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func texts(lines []types.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func bolds(lines []types.Line) []bool {
	out := make([]bool, len(lines))
	for i, l := range lines {
		out[i] = l.Bold
	}
	return out
}

func assertOrdered(t *testing.T, lines []types.Line) {
	t.Helper()
	for i := 1; i < len(lines); i++ {
		prev, cur := lines[i-1], lines[i]
		if cur.Page == prev.Page {
			assert.Greater(t, cur.Index, prev.Index, "line %d index", i)
			assert.Greater(t, cur.Y, prev.Y, "line %d y", i)
		} else {
			assert.Greater(t, cur.Page, prev.Page, "line %d page", i)
		}
	}
}

const guideText = `TRAVEL GUIDE

Introduction

This guide covers the south of France.
It has many useful tips for visitors.
Most towns are close to the sea.
Trains connect the larger cities.

Things to Do

Beaches are great in summer.
Visit the old harbour at dawn.
Markets open early on Saturdays.
Museums close on Mondays.
`

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.txt", guideText)

	lines, err := ReadText(context.Background(), filepath.Join(dir, "guide.txt"), "guide.txt")
	require.NoError(t, err)

	require.Len(t, lines, 11)
	assert.Equal(t, "TRAVEL GUIDE", lines[0].Text)
	assert.Equal(t, []bool{true, true, false, false, false, false, true, false, false, false, false}, bolds(lines))
	for _, l := range lines {
		assert.Equal(t, "guide.txt", l.DocumentID)
		assert.Equal(t, 1, l.Page)
	}
	assertOrdered(t, lines)
}

func TestReadTextSegments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.txt", guideText)

	lines, err := ReadText(context.Background(), filepath.Join(dir, "guide.txt"), "guide.txt")
	require.NoError(t, err)

	sections, err := segment.Segment("guide.txt", lines, types.DefaultPipelineConfig().Segment)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "Introduction", sections[0].Title)
	assert.Equal(t, []string{"TRAVEL GUIDE", "Introduction"}, texts(sections[0].Heading))
	assert.Len(t, sections[0].Body, 4)
	assert.Equal(t, "Things to Do", sections[1].Title)
	assert.Len(t, sections[1].Body, 4)
}

func TestReadTextFormFeedStartsPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "paged.txt", "first page line one\nfirst page line two\n\fsecond page line\n")

	lines, err := ReadText(context.Background(), filepath.Join(dir, "paged.txt"), "paged.txt")
	require.NoError(t, err)

	require.Len(t, lines, 3)
	assert.Equal(t, []int{1, 1, 2}, []int{lines[0].Page, lines[1].Page, lines[2].Page})
	assert.Equal(t, 0, lines[2].Index)
	assert.Equal(t, "second page line", lines[2].Text)
}

func TestLooksLikeHeading(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Introduction", true},
		{"Things to Do", true},
		{"GENERAL PACKING TIPS", true},
		{"Coastal Adventures in the South of France", true},
		{"This ends with a period.", false},
		{"lower case start", false},
		{"Mixed case words here", false},
		{"One Two Three Four Five Six Seven Eight Nine", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeHeading(tt.line))
		})
	}
}

func TestReadMarkdown(t *testing.T) {
	src := strings.Join([]string{
		"# Coastal Adventures",
		"",
		"The coast has many beaches.",
		"Rent a kayak in the morning.",
		"",
		"- Pack sunscreen",
		"- Bring water",
		"",
		"## Nightlife",
		"",
		"Bars open late in summer.",
		"",
	}, "\n")
	dir := t.TempDir()
	writeFile(t, dir, "coast.md", src)

	lines, err := ReadMarkdown(context.Background(), filepath.Join(dir, "coast.md"), "coast.md")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Coastal Adventures",
		"The coast has many beaches.",
		"Rent a kayak in the morning.",
		"Pack sunscreen",
		"Bring water",
		"Nightlife",
		"Bars open late in summer.",
	}, texts(lines))
	assert.Equal(t, []bool{true, false, false, false, false, true, false}, bolds(lines))
	assertOrdered(t, lines)
}

func TestJoinRow(t *testing.T) {
	tests := []struct {
		name     string
		content  pdf.TextHorizontal
		wantText string
		wantSize float64
		wantBold bool
	}{
		{
			name: "word runs with gap",
			content: pdf.TextHorizontal{
				{Font: "Helvetica-Bold", FontSize: 14, X: 10, W: 30, S: "Data"},
				{Font: "Helvetica-Bold", FontSize: 14, X: 45, W: 40, S: "Pipeline"},
			},
			wantText: "Data Pipeline",
			wantSize: 14,
			wantBold: true,
		},
		{
			name: "adjacent glyphs",
			content: pdf.TextHorizontal{
				{Font: "Times-Roman", FontSize: 10, X: 15, W: 5, S: "i"},
				{Font: "Times-Roman", FontSize: 10, X: 10, W: 5, S: "H"},
			},
			wantText: "Hi",
			wantSize: 10,
		},
		{
			name: "mostly regular face",
			content: pdf.TextHorizontal{
				{Font: "Arial-BoldMT", FontSize: 11, X: 0, W: 20, S: "Tip:"},
				{Font: "ArialMT", FontSize: 11, X: 25, W: 90, S: "book trains early"},
			},
			wantText: "Tip: book trains early",
			wantSize: 11,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, size, bold := joinRow(tt.content)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantSize, size)
			assert.Equal(t, tt.wantBold, bold)
		})
	}
}

func TestEmphasise(t *testing.T) {
	rows := []pdfRow{
		{page: 1, y: -700, text: "Budget Overview", fontSize: 14},
		{page: 1, y: -680, text: "body one", fontSize: 10},
		{page: 1, y: -668, text: "body two", fontSize: 10},
		{page: 2, y: -700, text: "Regular Heading", fontSize: 10, boldFont: true},
		{page: 2, y: -688, text: "body three", fontSize: 10},
	}
	lines := emphasise("doc.pdf", rows)

	require.Len(t, lines, 5)
	assert.Equal(t, []bool{true, false, false, true, false}, bolds(lines))
	assert.Equal(t, []int{0, 1, 2, 0, 1}, []int{lines[0].Index, lines[1].Index, lines[2].Index, lines[3].Index, lines[4].Index})
	assert.Equal(t, 14.0, lines[0].FontSize)
	assertOrdered(t, lines)
}

func TestDirLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.txt", guideText)
	writeFile(t, dir, "table.csv", "a,b\n1,2\n")
	writeFile(t, dir, "broken.pdf", "this is not a pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.txt"), 0o755))

	d := NewDir(dir)

	t.Run("supported format", func(t *testing.T) {
		lines, err := d.Lines(context.Background(), "guide.txt")
		require.NoError(t, err)
		assert.Len(t, lines, 11)
	})

	tests := []struct {
		name    string
		id      string
		ctx     func() context.Context
		wantErr error
	}{
		{name: "unsupported extension", id: "table.csv", wantErr: types.ErrUnsupportedFormat},
		{name: "missing file", id: "nope.pdf", wantErr: types.ErrSourceRead},
		{name: "corrupt pdf", id: "broken.pdf", wantErr: types.ErrSourceRead},
		{name: "directory", id: "folder.txt", wantErr: types.ErrSourceRead},
		{
			name: "canceled context",
			id:   "guide.txt",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: types.ErrSourceRead,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			lines, err := d.Lines(ctx, tt.id)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, lines)
		})
	}
}

func TestDirDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "# B\n")
	writeFile(t, dir, "a.txt", "a\n")
	writeFile(t, dir, "c.csv", "c\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.pdf"), 0o755))

	names, err := NewDir(dir).Documents()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.md"}, names)
}

type docxParagraph struct {
	style string
	text  string
}

func writeDOCX(t *testing.T, path string, paras ...docxParagraph) {
	t.Helper()
	doc := docx.New().WithDefaultTheme()
	for _, p := range paras {
		para := doc.AddParagraph()
		para.AddText(p.text)
		if p.style != "" {
			para.Style(p.style)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = doc.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// writePDF writes a minimal PDF with one content stream per page. /F1 is
// Helvetica and /F2 is Helvetica-Bold.
func writePDF(t *testing.T, path string, pages ...string) {
	t.Helper()
	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalog := add("")
	pagesObj := add("")
	regular := add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	bold := add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>")

	var kids []string
	for _, content := range pages {
		stream := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 %d 0 R /F2 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, regular, bold, stream))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj)
	objects[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalog, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestReadDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.docx")
	writeDOCX(t, path,
		docxParagraph{style: "Title", text: "Travel Guide"},
		docxParagraph{text: "This guide covers the south of France."},
		docxParagraph{style: "Heading1", text: "Things to Do"},
		docxParagraph{text: "Beaches are great in summer."},
		docxParagraph{text: "Visit the old harbour at dawn."},
	)

	lines, err := ReadDOCX(context.Background(), path, "guide.docx")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Travel Guide",
		"This guide covers the south of France.",
		"Things to Do",
		"Beaches are great in summer.",
		"Visit the old harbour at dawn.",
	}, texts(lines))
	assert.Equal(t, []bool{true, false, true, false, false}, bolds(lines))
	for _, l := range lines {
		assert.Equal(t, "guide.docx", l.DocumentID)
		assert.Equal(t, 1, l.Page)
	}
	assertOrdered(t, lines)
}

func TestReadPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.pdf")
	// Rows are written out of order; the reader sorts them top down.
	writePDF(t, path,
		"BT /F1 11 Tf 72 676 Td (Pack light layers for the evening.) Tj ET\n"+
			"BT /F2 18 Tf 72 720 Td (Packing List) Tj ET\n"+
			"BT /F1 11 Tf 72 690 Td (Bring sunscreen and a hat.) Tj ET\n"+
			"BT /F2 18 Tf 72 640 Td (Nightlife) Tj ET\n"+
			"BT /F1 11 Tf 72 610 Td (The old port stays lively until late.) Tj ET\n"+
			"BT /F1 11 Tf 72 596 Td (Book tables ahead on weekends.) Tj ET",
		"BT /F1 11 Tf 72 720 Td (Most museums close on Mondays.) Tj ET",
	)

	lines, err := ReadPDF(context.Background(), path, "guide.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Packing List",
		"Bring sunscreen and a hat.",
		"Pack light layers for the evening.",
		"Nightlife",
		"The old port stays lively until late.",
		"Book tables ahead on weekends.",
		"Most museums close on Mondays.",
	}, texts(lines))
	assert.Equal(t, []bool{true, false, false, true, false, false, false}, bolds(lines))
	assert.Equal(t, 18.0, lines[0].FontSize)
	assert.Equal(t, 11.0, lines[1].FontSize)
	assert.Equal(t, 2, lines[6].Page)
	assert.Equal(t, 0, lines[6].Index)
	assertOrdered(t, lines)

	sections, err := segment.Segment("guide.pdf", lines, types.DefaultPipelineConfig().Segment)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Packing List", sections[0].Title)
	assert.Equal(t, "Nightlife", sections[1].Title)
	assert.Equal(t, 2, sections[1].EndPage)
}

func TestHeadingsBetweenOneLineParagraphs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.md",
		"# Packing List\n\nBring sunscreen and a hat.\n\n"+
			"# Nightlife\n\nThe old port stays lively until late.\n\n"+
			"# Museums\n\nMost museums close on Mondays.\n")
	writeFile(t, dir, "guide.txt",
		"Packing List\n\nBring sunscreen and a hat.\n\n"+
			"Nightlife\n\nThe old port stays lively until late.\n\n"+
			"Museums\n\nMost museums close on Mondays.\n")
	writeDOCX(t, filepath.Join(dir, "guide.docx"),
		docxParagraph{style: "Heading1", text: "Packing List"},
		docxParagraph{text: "Bring sunscreen and a hat."},
		docxParagraph{style: "Heading1", text: "Nightlife"},
		docxParagraph{text: "The old port stays lively until late."},
		docxParagraph{style: "Heading1", text: "Museums"},
		docxParagraph{text: "Most museums close on Mondays."},
	)

	d := NewDir(dir)
	for _, id := range []string{"guide.md", "guide.txt", "guide.docx"} {
		t.Run(id, func(t *testing.T) {
			lines, err := d.Lines(context.Background(), id)
			require.NoError(t, err)
			require.Len(t, lines, 6)

			sections, err := segment.Segment(id, lines, types.DefaultPipelineConfig().Segment)
			require.NoError(t, err)

			titles := make([]string, len(sections))
			for i, s := range sections {
				titles[i] = s.Title
				assert.Len(t, s.Body, 1, "section %q", s.Title)
			}
			assert.Equal(t, []string{"Packing List", "Nightlife", "Museums"}, titles)
		})
	}
}
