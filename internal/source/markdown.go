// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/persona-digest/pkg/types"
)

// ReadMarkdown parses a Markdown file with goldmark. ATX and setext
// headings become heading lines; every other top-level block contributes
// its text lines as body. Markdown has no pages, so all lines are on
// page 1.
func ReadMarkdown(ctx context.Context, path, documentID string) ([]types.Line, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return markdownLines(src, documentID), nil
}

func markdownLines(src []byte, documentID string) []types.Line {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	lay := newLayout(documentID)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case ast.KindHeading:
			lay.heading(nodeText(n, src))
		case ast.KindThematicBreak:
			lay.blank()
		default:
			lay.text(nodeText(n, src))
			lay.blank()
		}
	}
	return lay.lines
}

// nodeText collects the raw text of a block and its inline descendants,
// keeping line breaks.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	// Only block nodes carry line segments.
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); isCode(n) || (lines.Len() > 0 && !n.HasChildren()) {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			s := nodeText(c, src)
			if s == "" {
				continue
			}
			buf.WriteString(s)
			if c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func isCode(n ast.Node) bool {
	k := n.Kind()
	return k == ast.KindCodeBlock || k == ast.KindFencedCodeBlock || k == ast.KindHTMLBlock
}
