// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SegmentConfig holds the title-detection thresholds of the segmenter.
type SegmentConfig struct {
	// MaxTitleWords is the longest line, in words, that can be a title (default 10).
	MaxTitleWords int `json:"max_title_words" yaml:"max_title_words" mapstructure:"max_title_words" validate:"gt=0"`

	// MinSpacingRatio is how much larger than the typical line gap the space
	// above and below a bold line must be for it to count as isolated (default 1.2).
	MinSpacingRatio float64 `json:"min_spacing_ratio" yaml:"min_spacing_ratio" mapstructure:"min_spacing_ratio" validate:"gt=0"`

	// UntitledTitle labels the implicit section holding lines that precede
	// the first title (default "Untitled").
	UntitledTitle string `json:"untitled_title" yaml:"untitled_title" mapstructure:"untitled_title" validate:"required"`
}

// KeywordConfig holds the query keyword extraction settings.
type KeywordConfig struct {
	// MaxKeywords is the number of top terms kept (default 20).
	MaxKeywords int `json:"max_keywords" yaml:"max_keywords" mapstructure:"max_keywords" validate:"gt=0"`

	// MinTokenLength drops shorter tokens (default 3).
	MinTokenLength int `json:"min_token_length" yaml:"min_token_length" mapstructure:"min_token_length" validate:"gt=0"`

	// ExtraStopwords are added to the built-in English stop-word list.
	ExtraStopwords []string `json:"extra_stopwords,omitempty" yaml:"extra_stopwords,omitempty" mapstructure:"extra_stopwords"`
}

// ScoreConfig holds the relevance formula weights:
//
//	score = TitleWeight*overlap(title) + BodyWeight*overlap(body)
//	      + LengthWeight*min(words, LengthSaturation)/LengthSaturation
//	      + DiversityWeight*vocabulary_diversity
type ScoreConfig struct {
	// TitleWeight (w1) must exceed BodyWeight (default 3.0).
	TitleWeight float64 `json:"title_weight" yaml:"title_weight" mapstructure:"title_weight" validate:"gtfield=BodyWeight"`

	// BodyWeight (w2) (default 1.5).
	BodyWeight float64 `json:"body_weight" yaml:"body_weight" mapstructure:"body_weight" validate:"gt=0"`

	// LengthWeight (w3) (default 0.005). Together with DiversityWeight it
	// stays below the worth of one body match, so length and diversity
	// only order sections with equal keyword evidence.
	LengthWeight float64 `json:"length_weight" yaml:"length_weight" mapstructure:"length_weight" validate:"gte=0"`

	// DiversityWeight (w4) (default 0.005).
	DiversityWeight float64 `json:"diversity_weight" yaml:"diversity_weight" mapstructure:"diversity_weight" validate:"gte=0"`

	// LengthSaturation is the body word count beyond which length stops
	// adding to the score (default 1000).
	LengthSaturation int `json:"length_saturation" yaml:"length_saturation" mapstructure:"length_saturation" validate:"gt=0"`

	// OccurrenceCap bounds how many occurrences of one keyword count
	// towards overlap (default 5).
	OccurrenceCap int `json:"occurrence_cap" yaml:"occurrence_cap" mapstructure:"occurrence_cap" validate:"gt=0"`
}

// RefineConfig holds the sentence selection settings of the refiner.
type RefineConfig struct {
	// MaxSentences is the summary size (default 5).
	MaxSentences int `json:"max_sentences" yaml:"max_sentences" mapstructure:"max_sentences" validate:"gt=0"`

	// KeywordWeight scales keyword density (default 1.0).
	KeywordWeight float64 `json:"keyword_weight" yaml:"keyword_weight" mapstructure:"keyword_weight" validate:"gte=0"`

	// PositionWeight scales the bonus for the first and last fifth (default 0.3).
	PositionWeight float64 `json:"position_weight" yaml:"position_weight" mapstructure:"position_weight" validate:"gte=0"`

	// LengthWeight scales the length-fit term (default 0.2).
	LengthWeight float64 `json:"length_weight" yaml:"length_weight" mapstructure:"length_weight" validate:"gte=0"`

	// IndicatorWeight is the flat bonus for an indicator word (default 0.1).
	IndicatorWeight float64 `json:"indicator_weight" yaml:"indicator_weight" mapstructure:"indicator_weight" validate:"gte=0"`

	// EdgeFraction is the share of sentences at each end of a section that
	// receive the positional bonus (default 0.2).
	EdgeFraction float64 `json:"edge_fraction" yaml:"edge_fraction" mapstructure:"edge_fraction" validate:"gt=0,lte=0.5"`

	// MinSentenceWords and MaxSentenceWords bound the preferred sentence
	// length band (defaults 8 and 40).
	MinSentenceWords int `json:"min_sentence_words" yaml:"min_sentence_words" mapstructure:"min_sentence_words" validate:"gt=0"`
	MaxSentenceWords int `json:"max_sentence_words" yaml:"max_sentence_words" mapstructure:"max_sentence_words" validate:"gtfield=MinSentenceWords"`

	// IndicatorWords earn the flat indicator bonus.
	IndicatorWords []string `json:"indicator_words" yaml:"indicator_words" mapstructure:"indicator_words"`
}

// PipelineConfig groups all stage configurations. It is passed by value
// into each stage and never modified during a run.
type PipelineConfig struct {
	Segment  SegmentConfig `json:"segment" yaml:"segment" mapstructure:"segment"`
	Keywords KeywordConfig `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	Score    ScoreConfig   `json:"score" yaml:"score" mapstructure:"score"`
	Refine   RefineConfig  `json:"refine" yaml:"refine" mapstructure:"refine"`

	// TopK is the number of ranked sections reported and refined (default 5).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k" validate:"gt=0"`

	// Workers bounds per-document parallelism; 0 or 1 runs sequentially.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers" validate:"gte=0"`
}

// DefaultIndicatorWords is the indicator vocabulary of the refiner.
var DefaultIndicatorWords = []string{
	"important", "key", "significant", "essential", "must", "should",
	"recommend", "popular", "best", "top", "famous",
}

// DefaultPipelineConfig returns the documented defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Segment: SegmentConfig{
			MaxTitleWords:   10,
			MinSpacingRatio: 1.2,
			UntitledTitle:   "Untitled",
		},
		Keywords: KeywordConfig{
			MaxKeywords:    20,
			MinTokenLength: 3,
		},
		Score: ScoreConfig{
			TitleWeight:      3.0,
			BodyWeight:       1.5,
			LengthWeight:     0.005,
			DiversityWeight:  0.005,
			LengthSaturation: 1000,
			OccurrenceCap:    5,
		},
		Refine: RefineConfig{
			MaxSentences:     5,
			KeywordWeight:    1.0,
			PositionWeight:   0.3,
			LengthWeight:     0.2,
			IndicatorWeight:  0.1,
			EdgeFraction:     0.2,
			MinSentenceWords: 8,
			MaxSentenceWords: 40,
			IndicatorWords:   append([]string(nil), DefaultIndicatorWords...),
		},
		TopK:    5,
		Workers: 1,
	}
}
