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

// Venue age bonuses: newer venues get a flat trend boost.
const (
	venueBonusWeek    = 20
	venueBonusMonth   = 10
	venueBonusQuarter = 5
)

// Article age bonuses: articles trend on a much shorter horizon.
const (
	articleBonusDay   = 25
	articleBonusWeek  = 15
	articleBonusMonth = 8
)

// VelocityEstimator estimates how fast engagement is currently accruing for
// an item, and classifies its momentum. The catalog collaborator cannot yet
// supply a true velocity signal, so the estimator is injectable: swapping in
// a real signal later changes no scorer contract.
type VelocityEstimator interface {
	// Name identifies the estimator for logging and config echo.
	Name() string

	// Velocity returns the estimated engagement accrual rate. Must be
	// non-negative for non-negative counter inputs.
	Velocity(item *models.ContentItem, now time.Time) float64

	// Direction classifies the item's momentum.
	Direction(item *models.ContentItem, now time.Time) models.TrendDirection
}

// StaticVelocityEstimator is the documented "no real signal available"
// default: zero velocity and a stable direction for every item. It is
// deterministic on purpose; trend scores then rank purely on age bonuses.
type StaticVelocityEstimator struct{}

func (StaticVelocityEstimator) Name() string { return "static" }

func (StaticVelocityEstimator) Velocity(*models.ContentItem, time.Time) float64 { return 0 }

func (StaticVelocityEstimator) Direction(*models.ContentItem, time.Time) models.TrendDirection {
	return models.TrendStable
}

// RateVelocityEstimator approximates velocity as total engagement divided by
// item age in days. It is a coarse stand-in for a true short-horizon signal
// but is deterministic and gives recent high-engagement items a usable
// ordering. Items younger than one day count as one day old to avoid
// division blow-ups.
type RateVelocityEstimator struct {
	// RisingThreshold is the per-day rate above which an item classifies as
	// rising; at or below DecliningThreshold it classifies as declining.
	RisingThreshold    float64
	DecliningThreshold float64
}

// NewRateVelocityEstimator creates a rate estimator with default thresholds.
func NewRateVelocityEstimator() *RateVelocityEstimator {
	return &RateVelocityEstimator{
		RisingThreshold:    5.0,
		DecliningThreshold: 0.5,
	}
}

func (e *RateVelocityEstimator) Name() string { return "rate" }

func (e *RateVelocityEstimator) Velocity(item *models.ContentItem, now time.Time) float64 {
	age := AgeInDays(item, now)
	if age < 1 {
		age = 1
	}

	c := item.Counters
	total := float64(c.Regulars + c.Views + c.BlogMentions + c.LinkedContent)
	return total / age
}

func (e *RateVelocityEstimator) Direction(item *models.ContentItem, now time.Time) models.TrendDirection {
	v := e.Velocity(item, now)
	switch {
	case v > e.RisingThreshold:
		return models.TrendRising
	case v <= e.DecliningThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// TrendScorer scores items on short-horizon momentum: a recency age bonus
// plus the injected velocity estimate. Distinct from popularity, which
// rewards cumulative engagement.
type TrendScorer struct {
	estimator VelocityEstimator
}

// NewTrendScorer creates a trend scorer. A nil estimator falls back to the
// deterministic static default.
func NewTrendScorer(estimator VelocityEstimator) *TrendScorer {
	if estimator == nil {
		estimator = StaticVelocityEstimator{}
	}
	return &TrendScorer{estimator: estimator}
}

// Estimator returns the velocity estimator in use.
func (s *TrendScorer) Estimator() VelocityEstimator {
	return s.estimator
}

// Score computes the trend score and direction for one item. The direction
// comes from the same estimator as the velocity term, never invented
// independently.
func (s *TrendScorer) Score(item *models.ContentItem, now time.Time) (int, models.TrendDirection) {
	age := AgeInDays(item, now)

	score := float64(ageBonus(item.Kind, age)) + s.estimator.Velocity(item, now)
	return int(math.Round(score)), s.estimator.Direction(item, now)
}

// ScoreAll scores every item in place, populating TrendScore and
// TrendDirection.
func (s *TrendScorer) ScoreAll(items []models.ScoredItem, now time.Time) {
	for i := range items {
		items[i].TrendScore, items[i].TrendDirection = s.Score(&items[i].Item, now)
	}
}

// ageBonus returns the flat recency bonus for the item's kind and age.
func ageBonus(kind models.ContentKind, ageInDays float64) int {
	if kind == models.KindArticle {
		switch {
		case ageInDays <= 1:
			return articleBonusDay
		case ageInDays <= 7:
			return articleBonusWeek
		case ageInDays <= 30:
			return articleBonusMonth
		default:
			return 0
		}
	}

	switch {
	case ageInDays <= 7:
		return venueBonusWeek
	case ageInDays <= 30:
		return venueBonusMonth
	case ageInDays <= 90:
		return venueBonusQuarter
	default:
		return 0
	}
}
