// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Keyword is a salient query term with its normalised frequency weight.
type Keyword struct {
	Term   string  `json:"term" yaml:"term"`
	Count  int     `json:"count" yaml:"count"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Query is the persona/job description and the keywords derived from it.
type Query struct {
	Persona string `json:"persona" yaml:"persona"`
	Job     string `json:"job" yaml:"job"`

	// Keywords are ordered by descending count, then first occurrence.
	Keywords []Keyword `json:"keywords" yaml:"keywords"`
}

// IsEmpty reports whether the query produced no keywords.
func (q Query) IsEmpty() bool {
	return len(q.Keywords) == 0
}

// Weights returns the keyword set as a term → weight map.
func (q Query) Weights() map[string]float64 {
	m := make(map[string]float64, len(q.Keywords))
	for _, k := range q.Keywords {
		m[k.Term] = k.Weight
	}
	return m
}
