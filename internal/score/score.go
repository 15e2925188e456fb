// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score ranks sections from all input documents against the query
// keywords:
//
//	score = w1*overlap(title) + w2*overlap(body)
//	      + w3*min(words, saturation)/saturation + w4*vocabulary_diversity
//
// The ranking is a total order. Equal scores fall back to the higher
// title overlap, then the earlier document in input order, then the
// earlier start page, then the earlier position in the input sequence.
package score

import (
	"math"
	"sort"

	"github.com/pdiddy/persona-digest/internal/textutil"
	"github.com/pdiddy/persona-digest/pkg/types"
)

// Overlap sums, over the keywords found in tokens, the keyword weight times
// its occurrence count (capped at occurrenceCap), and divides by the square
// root of the token count, itself capped at saturation when saturation > 0.
// Dividing by the plain length would let extra keyword-free words outweigh
// a match; the square root still favours dense text, and the cap keeps a
// single match in a long section worth at least weight/√saturation.
// Adding keyword occurrences to a text of fixed length never lowers the
// result.
func Overlap(tokens []string, weights map[string]float64, occurrenceCap, saturation int) float64 {
	if len(tokens) == 0 || len(weights) == 0 {
		return 0
	}
	// Terms are summed in first-occurrence order so the float result does
	// not depend on map iteration order.
	counts := make(map[string]int)
	var order []string
	for _, t := range tokens {
		if _, ok := weights[t]; !ok {
			continue
		}
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	var sum float64
	for _, term := range order {
		c := counts[term]
		if occurrenceCap > 0 && c > occurrenceCap {
			c = occurrenceCap
		}
		sum += weights[term] * float64(c)
	}
	n := len(tokens)
	if saturation > 0 && n > saturation {
		n = saturation
	}
	return sum / math.Sqrt(float64(n))
}

// Components returns the unweighted terms of the score of s. The label of
// an untitled section never matches.
func Components(s types.Section, weights map[string]float64, cfg types.ScoreConfig) types.ScoreComponents {
	var c types.ScoreComponents
	if !s.Untitled {
		c.TitleOverlap = Overlap(textutil.Tokens(s.Title), weights, cfg.OccurrenceCap, cfg.LengthSaturation)
	}
	c.BodyOverlap = Overlap(textutil.Tokens(s.Text()), weights, cfg.OccurrenceCap, cfg.LengthSaturation)
	if cfg.LengthSaturation > 0 {
		c.Length = float64(min(s.WordCount, cfg.LengthSaturation)) / float64(cfg.LengthSaturation)
	}
	c.Diversity = s.VocabularyDiversity
	return c
}

// Total applies the configured weights to c.
func Total(c types.ScoreComponents, cfg types.ScoreConfig) float64 {
	return cfg.TitleWeight*c.TitleOverlap +
		cfg.BodyWeight*c.BodyOverlap +
		cfg.LengthWeight*c.Length +
		cfg.DiversityWeight*c.Diversity
}

// Rank scores every section and returns them sorted best first with ranks
// 1..N. Sections must be given in input order: documents in request order,
// sections in document order. An empty query ranks by length and diversity
// alone. Zero sections yield an empty ranking.
func Rank(sections []types.Section, q types.Query, cfg types.ScoreConfig) []types.ScoredSection {
	weights := q.Weights()

	docOrder := make(map[string]int)
	for _, s := range sections {
		if _, ok := docOrder[s.DocumentID]; !ok {
			docOrder[s.DocumentID] = len(docOrder)
		}
	}

	type entry struct {
		scored types.ScoredSection
		pos    int
	}
	entries := make([]entry, len(sections))
	for i, s := range sections {
		c := Components(s, weights, cfg)
		entries[i] = entry{
			scored: types.ScoredSection{Section: s, Score: Total(c, cfg), Components: c},
			pos:    i,
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.scored.Score != b.scored.Score {
			return a.scored.Score > b.scored.Score
		}
		if a.scored.Components.TitleOverlap != b.scored.Components.TitleOverlap {
			return a.scored.Components.TitleOverlap > b.scored.Components.TitleOverlap
		}
		da, db := docOrder[a.scored.Section.DocumentID], docOrder[b.scored.Section.DocumentID]
		if da != db {
			return da < db
		}
		if a.scored.Section.StartPage != b.scored.Section.StartPage {
			return a.scored.Section.StartPage < b.scored.Section.StartPage
		}
		return a.pos < b.pos
	})

	ranked := make([]types.ScoredSection, len(entries))
	for i, e := range entries {
		ranked[i] = e.scored
		ranked[i].Rank = i + 1
	}
	return ranked
}
