// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-digest/pkg/types"
)

func defaultConfig() types.KeywordConfig {
	return types.DefaultPipelineConfig().Keywords
}

func terms(q types.Query) []string {
	out := make([]string, len(q.Keywords))
	for i, k := range q.Keywords {
		out[i] = k.Term
	}
	return out
}

func TestExtract(t *testing.T) {
	q := Extract("Travel Planner", "Plan a trip of 4 days for a group of 10 college friends. Plan the trip well.", defaultConfig())

	require.False(t, q.IsEmpty())
	assert.Equal(t, []string{"plan", "trip", "travel", "planner", "days", "group", "college", "friends", "well"}, terms(q))
	assert.Equal(t, 1.0, q.Keywords[0].Weight, "most frequent term weighs 1")
	assert.Equal(t, 2, q.Keywords[1].Count)
	assert.InDelta(t, 0.5, q.Keywords[2].Weight, 1e-9)
	assert.Equal(t, "Travel Planner", q.Persona)
}

func TestExtractDropsStopwordsAndShortTokens(t *testing.T) {
	q := Extract("I am an HR rep", "to do it", defaultConfig())
	assert.Equal(t, []string{"rep"}, terms(q))
}

func TestExtractEmpty(t *testing.T) {
	tests := []struct {
		name    string
		persona string
		job     string
	}{
		{name: "empty strings", persona: "", job: ""},
		{name: "whitespace", persona: "   ", job: "\n"},
		{name: "only stop-words", persona: "the and of", job: "would could"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Extract(tt.persona, tt.job, defaultConfig())
			assert.True(t, q.IsEmpty())
			assert.Empty(t, q.Weights())
		})
	}
}

func TestExtractKeepsTopN(t *testing.T) {
	var words []string
	for i := 0; i < 30; i++ {
		words = append(words, fmt.Sprintf("term%02d", i))
	}
	// term29 appears twice, so it ranks first; the rest tie and keep input order.
	job := strings.Join(words, " ") + " term29"

	cfg := defaultConfig()
	q := Extract("", job, cfg)

	require.Len(t, q.Keywords, cfg.MaxKeywords)
	assert.Equal(t, "term29", q.Keywords[0].Term)
	assert.Equal(t, "term00", q.Keywords[1].Term)
	assert.Equal(t, "term18", q.Keywords[cfg.MaxKeywords-1].Term)
}

func TestExtractExtraStopwords(t *testing.T) {
	cfg := defaultConfig()
	cfg.ExtraStopwords = []string{"Trip"}
	q := Extract("", "plan trip", cfg)
	assert.Equal(t, []string{"plan"}, terms(q))
}

func TestExtractDeterministic(t *testing.T) {
	a := Extract("HR professional", "Create and manage fillable forms for onboarding and compliance.", defaultConfig())
	b := Extract("HR professional", "Create and manage fillable forms for onboarding and compliance.", defaultConfig())
	assert.Equal(t, a, b)
}
