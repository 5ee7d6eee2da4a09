// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"fmt"
	"time"
)

// ScoringWeights controls how engagement counters combine into a base
// popularity score. Weights are taken as configured; a zero weight means
// that counter contributes nothing. DefaultConfig supplies the standard
// values, and config loading layers user settings on top of it.
type ScoringWeights struct {
	Regulars      float64 `koanf:"regulars" json:"regulars"`
	BlogMentions  float64 `koanf:"blog_mentions" json:"blog_mentions"`
	Views         float64 `koanf:"views" json:"views"`
	LinkedContent float64 `koanf:"linked_content" json:"linked_content"`
}

// Limits bounds result sizes and candidate fetch behavior.
type Limits struct {
	// DefaultLimit applies when a caller requests zero results.
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`

	// MaxLimit caps any caller-supplied limit.
	MaxLimit int `koanf:"max_limit" json:"max_limit"`

	// MaxCandidates caps how many items are pulled from the catalog per
	// fetch before scoring.
	MaxCandidates int `koanf:"max_candidates" json:"max_candidates"`

	// FetchTimeout bounds a single candidate fetch against the catalog.
	FetchTimeout time.Duration `koanf:"fetch_timeout" json:"fetch_timeout"`
}

// FeedConfig controls discovery feed composition.
type FeedConfig struct {
	// SectionSize is how many items each feed section contributes before
	// the combined feed is shuffled and truncated.
	SectionSize int `koanf:"section_size" json:"section_size"`

	// DiversityBonus is added to an item's discovery score when its
	// section was not recently seen by the user.
	DiversityBonus int `koanf:"diversity_bonus" json:"diversity_bonus"`
}

// Config holds engine tuning. All fields have working defaults; Validate
// rejects values that would make the engine misbehave rather than just
// perform badly.
type Config struct {
	Weights ScoringWeights `koanf:"weights" json:"weights"`
	Limits  Limits         `koanf:"limits" json:"limits"`
	Feed    FeedConfig     `koanf:"feed" json:"feed"`

	// VelocityEstimator selects the trend velocity source: "static" or
	// "rate".
	VelocityEstimator string `koanf:"velocity_estimator" json:"velocity_estimator"`

	// Seed initializes the feed shuffle RNG. Zero means derive from the
	// clock at engine construction; a fixed value makes feeds reproducible.
	Seed int64 `koanf:"seed" json:"seed"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Weights: ScoringWeights{
			Regulars:      regularsWeight,
			BlogMentions:  blogMentionsWeight,
			Views:         viewsWeight,
			LinkedContent: linkedWeight,
		},
		Limits: Limits{
			DefaultLimit:  10,
			MaxLimit:      100,
			MaxCandidates: 500,
			FetchTimeout:  5 * time.Second,
		},
		Feed: FeedConfig{
			SectionSize:    5,
			DiversityBonus: 5,
		},
		VelocityEstimator: "static",
	}
}

// Validate checks config consistency.
func (c *Config) Validate() error {
	if c.Weights.Regulars < 0 || c.Weights.BlogMentions < 0 || c.Weights.Views < 0 || c.Weights.LinkedContent < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if c.Limits.DefaultLimit <= 0 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit %d below default_limit %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxCandidates <= 0 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Limits.FetchTimeout <= 0 {
		return fmt.Errorf("limits.fetch_timeout must be positive, got %s", c.Limits.FetchTimeout)
	}
	if c.Feed.SectionSize <= 0 {
		return fmt.Errorf("feed.section_size must be positive, got %d", c.Feed.SectionSize)
	}
	if c.Feed.DiversityBonus < 0 {
		return fmt.Errorf("feed.diversity_bonus must be non-negative, got %d", c.Feed.DiversityBonus)
	}
	switch c.VelocityEstimator {
	case "", "static", "rate":
	default:
		return fmt.Errorf("velocity_estimator must be static or rate, got %q", c.VelocityEstimator)
	}
	return nil
}

// Clone returns a copy safe to mutate independently.
func (c *Config) Clone() Config {
	return *c
}

// newVelocityEstimator resolves the configured estimator name.
func (c *Config) newVelocityEstimator() VelocityEstimator {
	if c.VelocityEstimator == "rate" {
		return NewRateVelocityEstimator()
	}
	return StaticVelocityEstimator{}
}
