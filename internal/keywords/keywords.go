// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords derives the weighted query keyword set from a persona
// and job-to-be-done description.
package keywords

import (
	"sort"
	"unicode/utf8"

	"github.com/pdiddy/persona-digest/internal/textutil"
	"github.com/pdiddy/persona-digest/pkg/types"
)

// Extract tokenizes persona and job together, drops stop-words and tokens
// shorter than cfg.MinTokenLength, and keeps the cfg.MaxKeywords most
// frequent terms. Ties keep first-occurrence order. Each weight is the
// term's count divided by the count of the most frequent term, so the top
// keyword always weighs 1.
//
// Empty or stop-word-only input yields a Query with no keywords; callers
// treat that as a degraded query, not an error.
func Extract(persona, job string, cfg types.KeywordConfig) types.Query {
	q := types.Query{Persona: persona, Job: job}

	stop := textutil.NewStopwordSet(cfg.ExtraStopwords...)
	counts := make(map[string]int)
	var order []string

	for _, tok := range textutil.Tokens(persona + " " + job) {
		if utf8.RuneCountInString(tok) < cfg.MinTokenLength || stop.Contains(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	if len(order) == 0 {
		return q
	}

	// order is first-occurrence order, so a stable sort keeps ties in it.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if cfg.MaxKeywords > 0 && len(order) > cfg.MaxKeywords {
		order = order[:cfg.MaxKeywords]
	}

	top := float64(counts[order[0]])
	q.Keywords = make([]types.Keyword, len(order))
	for i, term := range order {
		q.Keywords[i] = types.Keyword{
			Term:   term,
			Count:  counts[term],
			Weight: float64(counts[term]) / top,
		}
	}
	return q
}
