// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refine builds extractive summaries of top-ranked sections by
// selecting a few representative sentences and keeping them in document
// order.
package refine

import (
	"sort"

	"github.com/pdiddy/persona-digest/internal/score"
	"github.com/pdiddy/persona-digest/internal/textutil"
	"github.com/pdiddy/persona-digest/pkg/types"
)

// Refiner scores sentences against one query.
type Refiner struct {
	cfg        types.RefineConfig
	weights    map[string]float64
	indicators map[string]struct{}
}

// New returns a Refiner for the keywords of q.
func New(q types.Query, cfg types.RefineConfig) *Refiner {
	indicators := make(map[string]struct{}, len(cfg.IndicatorWords))
	for _, w := range cfg.IndicatorWords {
		indicators[textutil.Fold(w)] = struct{}{}
	}
	return &Refiner{
		cfg:        cfg,
		weights:    q.Weights(),
		indicators: indicators,
	}
}

// Refine returns at most MaxSentences sentences of the section body in
// their original order. A body with that many sentences or fewer is
// returned whole.
func (r *Refiner) Refine(s types.Section) []string {
	sentences := textutil.Sentences(s.Text())
	if len(sentences) <= r.cfg.MaxSentences {
		return sentences
	}

	n := len(sentences)
	scores := make([]float64, n)
	idx := make([]int, n)
	for i, sent := range sentences {
		scores[i] = r.sentenceScore(sent, i, n)
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	picked := idx[:r.cfg.MaxSentences]
	sort.Ints(picked)

	out := make([]string, len(picked))
	for i, p := range picked {
		out[i] = sentences[p]
	}
	return out
}

// Summarize refines the section behind ss.
func (r *Refiner) Summarize(ss types.ScoredSection) types.Summary {
	return types.Summary{Section: ss, Sentences: r.Refine(ss.Section)}
}

func (r *Refiner) sentenceScore(sentence string, i, n int) float64 {
	tokens := textutil.Tokens(sentence)

	density := score.Overlap(tokens, r.weights, 0, 0)

	var position float64
	edge := max(1, int(float64(n)*r.cfg.EdgeFraction))
	if i < edge || i >= n-edge {
		position = 1
	}

	length := LengthFit(textutil.CountWords(sentence), r.cfg.MinSentenceWords, r.cfg.MaxSentenceWords)

	var indicator float64
	for _, t := range tokens {
		if _, ok := r.indicators[t]; ok {
			indicator = 1
			break
		}
	}

	return r.cfg.KeywordWeight*density +
		r.cfg.PositionWeight*position +
		r.cfg.LengthWeight*length +
		r.cfg.IndicatorWeight*indicator
}

// LengthFit is 1 for word counts within [lo, hi], rises linearly from 0
// below lo, and falls linearly to 0 at 2*hi.
func LengthFit(words, lo, hi int) float64 {
	switch {
	case words <= 0:
		return 0
	case words < lo:
		return float64(words) / float64(lo)
	case words <= hi:
		return 1
	default:
		return max(0, 1-float64(words-hi)/float64(hi))
	}
}
