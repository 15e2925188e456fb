// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the immutable pipeline configuration from
// defaults, an optional persona-digest.yaml file, and PERSONA_DIGEST_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/persona-digest/pkg/types"
)

// EnvPrefix prefixes every environment override, e.g.
// PERSONA_DIGEST_SCORE_TITLE_WEIGHT for score.title_weight.
const EnvPrefix = "PERSONA_DIGEST"

// ErrInvalid marks a configuration that fails validation.
var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New()

// Setup points v at the configuration file. An explicit path wins;
// otherwise persona-digest.yaml is searched in the working directory and
// in ~/.config/persona-digest. A missing file is not an error. It returns
// the file in use, or "" when none was found.
func Setup(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("persona-digest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "persona-digest"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load registers the defaults and environment bindings on v, then
// unmarshals and validates the resulting PipelineConfig.
func Load(v *viper.Viper) (types.PipelineConfig, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.PipelineConfig{}, err
	}
	return cfg, nil
}

// SetDefaults registers every key of types.DefaultPipelineConfig on v.
func SetDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()

	v.SetDefault("segment.max_title_words", d.Segment.MaxTitleWords)
	v.SetDefault("segment.min_spacing_ratio", d.Segment.MinSpacingRatio)
	v.SetDefault("segment.untitled_title", d.Segment.UntitledTitle)

	v.SetDefault("keywords.max_keywords", d.Keywords.MaxKeywords)
	v.SetDefault("keywords.min_token_length", d.Keywords.MinTokenLength)
	v.SetDefault("keywords.extra_stopwords", d.Keywords.ExtraStopwords)

	v.SetDefault("score.title_weight", d.Score.TitleWeight)
	v.SetDefault("score.body_weight", d.Score.BodyWeight)
	v.SetDefault("score.length_weight", d.Score.LengthWeight)
	v.SetDefault("score.diversity_weight", d.Score.DiversityWeight)
	v.SetDefault("score.length_saturation", d.Score.LengthSaturation)
	v.SetDefault("score.occurrence_cap", d.Score.OccurrenceCap)

	v.SetDefault("refine.max_sentences", d.Refine.MaxSentences)
	v.SetDefault("refine.keyword_weight", d.Refine.KeywordWeight)
	v.SetDefault("refine.position_weight", d.Refine.PositionWeight)
	v.SetDefault("refine.length_weight", d.Refine.LengthWeight)
	v.SetDefault("refine.indicator_weight", d.Refine.IndicatorWeight)
	v.SetDefault("refine.edge_fraction", d.Refine.EdgeFraction)
	v.SetDefault("refine.min_sentence_words", d.Refine.MinSentenceWords)
	v.SetDefault("refine.max_sentence_words", d.Refine.MaxSentenceWords)
	v.SetDefault("refine.indicator_words", d.Refine.IndicatorWords)

	v.SetDefault("top_k", d.TopK)
	v.SetDefault("workers", d.Workers)
}

// Validate checks the bounds of cfg. Most importantly the title weight
// must exceed the body weight.
func Validate(cfg types.PipelineConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		} else {
			msgs[i] = fmt.Sprintf("%s must satisfy %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
