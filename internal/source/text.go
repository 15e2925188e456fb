// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/persona-digest/pkg/types"
)

// maxInferredHeadingWords bounds the length of a plain-text heading.
const maxInferredHeadingWords = 8

// ReadText reads a UTF-8 plain-text file. Form feeds start a new page.
// A short line that stands alone between blank lines and is written in
// Title Case or upper case, without terminal punctuation, is treated as a
// heading.
func ReadText(ctx context.Context, path, documentID string) ([]types.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var raw []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lay := newLayout(documentID)
	for i, line := range raw {
		for strings.HasPrefix(line, "\f") {
			line = line[1:]
			lay.newPage()
		}
		text := strings.TrimSpace(line)
		switch {
		case text == "":
			lay.blank()
		case looksLikeHeading(text) && standsAlone(raw, i):
			lay.heading(text)
		default:
			lay.add(text, false)
		}
	}
	return lay.lines, nil
}

func standsAlone(lines []string, i int) bool {
	blank := func(j int) bool {
		return j < 0 || j >= len(lines) || strings.TrimSpace(strings.TrimLeft(lines[j], "\f")) == ""
	}
	return blank(i-1) && blank(i+1)
}

// looksLikeHeading reports a short line that starts with an upper-case
// letter, has no terminal punctuation, and is upper case or Title Case.
func looksLikeHeading(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > maxInferredHeadingWords {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(first) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	if strings.ContainsRune(".!?,;", last) {
		return false
	}
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsLetter(r) && !unicode.IsUpper(r) && !minorWords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

// minorWords may stay lower case inside a Title Case heading.
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "in": true, "of": true, "on": true, "or": true,
	"the": true, "to": true, "with": true,
}
