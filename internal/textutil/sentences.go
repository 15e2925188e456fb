// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// punkt is the English Punkt tokenizer, loaded once from its bundled
// training data.
var punkt = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// Sentences splits text into sentences with the Punkt algorithm, which
// keeps abbreviations, initials, and decimals inside their sentence.
// Whitespace inside sentences is collapsed. If the training data cannot
// be loaded the whole text is returned as one sentence.
func Sentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	tok, err := punkt()
	if err != nil {
		return []string{text}
	}

	var out []string
	for _, s := range tok.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
