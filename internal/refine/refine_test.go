// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-digest/pkg/types"
)

func sectionOf(sentences ...string) types.Section {
	text := strings.Join(sentences, " ")
	return types.Section{
		Title:      "Test",
		DocumentID: "doc.pdf",
		StartPage:  1,
		EndPage:    1,
		Body:       []types.Line{types.NewLine("doc.pdf", 1, 0, 0, text, 0, false)},
	}
}

// plain returns a ten-word sentence with no keywords or indicator words.
func plain(n int) string {
	return fmt.Sprintf("Filler sentence number %d goes on about nothing much here.", n)
}

func defaultConfig() types.RefineConfig {
	return types.DefaultPipelineConfig().Refine
}

func pipelineQuery() types.Query {
	return types.Query{Keywords: []types.Keyword{{Term: "pipeline", Count: 1, Weight: 1}}}
}

func TestRefineFewSentencesReturnsAll(t *testing.T) {
	r := New(pipelineQuery(), defaultConfig())
	got := r.Refine(sectionOf("One short.", "Two short.", "Three short."))
	assert.Equal(t, []string{"One short.", "Two short.", "Three short."}, got)
}

func TestRefinePicksKeywordSentencesInDocumentOrder(t *testing.T) {
	var sentences []string
	for i := 0; i < 12; i++ {
		if i >= 4 && i <= 8 {
			sentences = append(sentences, fmt.Sprintf("Pipeline stage %d feeds the next pipeline stage quickly.", i))
			continue
		}
		sentences = append(sentences, plain(i))
	}

	r := New(pipelineQuery(), defaultConfig())
	got := r.Refine(sectionOf(sentences...))

	require.Len(t, got, 5)
	assert.Equal(t, sentences[4:9], got)
}

func TestRefineIndicatorBonus(t *testing.T) {
	sentences := []string{plain(0), plain(1), plain(2), plain(3), plain(4),
		"It is important to book every ticket in advance.", plain(6)}

	r := New(types.Query{}, defaultConfig())
	got := r.Refine(sectionOf(sentences...))

	assert.Equal(t, []string{sentences[0], sentences[1], sentences[2], sentences[5], sentences[6]}, got)
}

func TestRefineNeverExceedsMaxSentences(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 20, 50} {
		var sentences []string
		for i := 0; i < n; i++ {
			sentences = append(sentences, plain(i))
		}
		got := New(pipelineQuery(), defaultConfig()).Refine(sectionOf(sentences...))
		assert.LessOrEqual(t, len(got), 5, "n=%d", n)

		// Order follows the original positions.
		last := -1
		for _, s := range got {
			pos := indexOf(sentences, s)
			require.GreaterOrEqual(t, pos, 0)
			assert.Greater(t, pos, last)
			last = pos
		}
	}
}

func TestRefineConfigurableSize(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxSentences = 2
	var sentences []string
	for i := 0; i < 6; i++ {
		sentences = append(sentences, plain(i))
	}
	got := New(types.Query{}, cfg).Refine(sectionOf(sentences...))
	assert.Equal(t, []string{sentences[0], sentences[5]}, got, "edge sentences win among equals")
}

func TestLengthFit(t *testing.T) {
	tests := []struct {
		words int
		want  float64
	}{
		{0, 0},
		{4, 0.5},
		{8, 1},
		{40, 1},
		{60, 0.5},
		{80, 0},
		{200, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d words", tt.words), func(t *testing.T) {
			assert.InDelta(t, tt.want, LengthFit(tt.words, 8, 40), 1e-12)
		})
	}
}

func TestSummarize(t *testing.T) {
	ss := types.ScoredSection{Section: sectionOf("A first one.", "A second one."), Rank: 1}
	sum := New(types.Query{}, defaultConfig()).Summarize(ss)
	assert.Equal(t, 1, sum.Section.Rank)
	assert.Equal(t, "A first one. A second one.", sum.Text())
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
