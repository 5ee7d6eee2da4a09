// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"math"
	"time"

	"github.com/haverstock/trouvaille/internal/models"
)

// Engagement weights for the popularity base score.
const (
	regularsWeight     = 10.0
	blogMentionsWeight = 5.0
	viewsWeight        = 0.5
	linkedWeight       = 3.0
)

// Reading-time bonus: articles in the comfortable 3-15 minute band.
const (
	readingTimeBonus = 5.0
	readingTimeMin   = 3
	readingTimeMax   = 15
)

// Venue completeness bonuses, applied after decay so age never discounts them.
const (
	photoBonus          = 5
	descriptionBonus    = 3
	tagBonus            = 2
	descriptionMinChars = 50
)

// Reason label thresholds on the final popularity score.
const (
	reasonHighlyPopular = 50
	reasonWellLoved     = 30
	reasonGrowing       = 15
)

// PopularityScorer combines engagement counters, recency decay, and
// completeness bonuses into a single popularity score per content item.
// It holds only configuration and is safe for concurrent use.
type PopularityScorer struct {
	weights ScoringWeights
}

// NewPopularityScorer creates a scorer with the given weights, taken as
// configured. A zero weight disables that counter's contribution.
func NewPopularityScorer(weights ScoringWeights) *PopularityScorer {
	return &PopularityScorer{weights: weights}
}

// Score computes the popularity score and reason label for one item.
// Missing fields contribute zero weight; with non-negative counters the
// result is always a non-negative integer.
func (s *PopularityScorer) Score(item *models.ContentItem, timeframe Timeframe, now time.Time) (int, string) {
	base := s.baseScore(item)

	age := AgeInDays(item, now)
	decayed := base * DecayFactor(age, timeframe, item.Kind)

	if item.Kind == models.KindVenue {
		decayed += float64(completenessBonus(item))
	}

	score := int(math.Round(decayed))
	return score, ReasonLabel(score)
}

// ScoreAll scores every item in place, populating PopularityScore and Reason.
func (s *PopularityScorer) ScoreAll(items []models.ScoredItem, timeframe Timeframe, now time.Time) {
	for i := range items {
		items[i].PopularityScore, items[i].Reason = s.Score(&items[i].Item, timeframe, now)
	}
}

// baseScore is the weighted sum of engagement counters before decay.
func (s *PopularityScorer) baseScore(item *models.ContentItem) float64 {
	c := item.Counters

	if item.Kind == models.KindArticle {
		base := float64(c.Views)*s.weights.Views + float64(c.LinkedContent)*s.weights.LinkedContent
		if item.ReadingTimeMinutes >= readingTimeMin && item.ReadingTimeMinutes <= readingTimeMax {
			base += readingTimeBonus
		}
		return base
	}

	return float64(c.Regulars)*s.weights.Regulars + float64(c.BlogMentions)*s.weights.BlogMentions
}

// completenessBonus rewards venues with richer records.
func completenessBonus(item *models.ContentItem) int {
	bonus := 0
	if item.PhotoCount > 0 {
		bonus += photoBonus
	}
	if len(item.Description) > descriptionMinChars {
		bonus += descriptionBonus
	}
	if len(item.Tags) > 0 {
		bonus += tagBonus
	}
	return bonus
}

// ReasonLabel classifies a popularity score into its display band.
func ReasonLabel(score int) string {
	switch {
	case score > reasonHighlyPopular:
		return "highly popular"
	case score > reasonWellLoved:
		return "well-loved"
	case score > reasonGrowing:
		return "growing in popularity"
	default:
		return "emerging"
	}
}
