// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"testing"
	"time"

	"github.com/haverstock/trouvaille/internal/models"
)

func TestAgeBonus(t *testing.T) {
	tests := []struct {
		name string
		kind models.ContentKind
		age  float64
		want int
	}{
		{"venue within a week", models.KindVenue, 3, 20},
		{"venue at week boundary", models.KindVenue, 7, 20},
		{"venue within a month", models.KindVenue, 8, 10},
		{"venue within a quarter", models.KindVenue, 60, 5},
		{"old venue", models.KindVenue, 91, 0},
		{"article within a day", models.KindArticle, 0.5, 25},
		{"article at day boundary", models.KindArticle, 1, 25},
		{"article within a week", models.KindArticle, 6, 15},
		{"article within a month", models.KindArticle, 20, 8},
		{"old article", models.KindArticle, 31, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageBonus(tt.kind, tt.age); got != tt.want {
				t.Errorf("ageBonus(%q, %f) = %d, want %d", tt.kind, tt.age, got, tt.want)
			}
		})
	}
}

func TestStaticVelocityEstimator(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	item := models.ContentItem{
		Kind:     models.KindVenue,
		Counters: models.EngagementCounters{Regulars: 500},
	}

	var est StaticVelocityEstimator
	if v := est.Velocity(&item, now); v != 0 {
		t.Errorf("Velocity() = %f, want 0", v)
	}
	if d := est.Direction(&item, now); d != models.TrendStable {
		t.Errorf("Direction() = %q, want %q", d, models.TrendStable)
	}
}

func TestRateVelocityEstimator(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tenDaysAgo := now.AddDate(0, 0, -10)
	today := now

	est := NewRateVelocityEstimator()

	tests := []struct {
		name          string
		item          models.ContentItem
		wantVelocity  float64
		wantDirection models.TrendDirection
	}{
		{
			name: "steady venue",
			item: models.ContentItem{
				Kind:      models.KindVenue,
				CreatedAt: &tenDaysAgo,
				Counters:  models.EngagementCounters{Regulars: 20, BlogMentions: 10},
			},
			wantVelocity:  3,
			wantDirection: models.TrendStable,
		},
		{
			name: "rising article, age clamps to one day",
			item: models.ContentItem{
				Kind:        models.KindArticle,
				PublishedAt: &today,
				Counters:    models.EngagementCounters{Views: 40},
			},
			wantVelocity:  40,
			wantDirection: models.TrendRising,
		},
		{
			name: "declining venue",
			item: models.ContentItem{
				Kind:      models.KindVenue,
				CreatedAt: &tenDaysAgo,
				Counters:  models.EngagementCounters{Regulars: 5},
			},
			wantVelocity:  0.5,
			wantDirection: models.TrendDeclining,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := est.Velocity(&tt.item, now); got != tt.wantVelocity {
				t.Errorf("Velocity() = %f, want %f", got, tt.wantVelocity)
			}
			if got := est.Direction(&tt.item, now); got != tt.wantDirection {
				t.Errorf("Direction() = %q, want %q", got, tt.wantDirection)
			}
		})
	}
}

func TestTrendScorerDefaultsToStatic(t *testing.T) {
	s := NewTrendScorer(nil)
	if name := s.Estimator().Name(); name != "static" {
		t.Errorf("Estimator().Name() = %q, want %q", name, "static")
	}
}

func TestTrendScorerScore(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	threeDaysAgo := now.AddDate(0, 0, -3)

	item := models.ContentItem{
		Kind:      models.KindVenue,
		CreatedAt: &threeDaysAgo,
		Counters:  models.EngagementCounters{Regulars: 100},
	}

	// Static estimator: score is the age bonus alone and direction stays
	// stable no matter how strong the counters are.
	score, direction := NewTrendScorer(nil).Score(&item, now)
	if score != 20 {
		t.Errorf("static Score() = %d, want 20", score)
	}
	if direction != models.TrendStable {
		t.Errorf("static Score() direction = %q, want %q", direction, models.TrendStable)
	}

	// Rate estimator adds 100/3 to the age bonus and classifies as rising.
	score, direction = NewTrendScorer(NewRateVelocityEstimator()).Score(&item, now)
	if score != 53 {
		t.Errorf("rate Score() = %d, want 53", score)
	}
	if direction != models.TrendRising {
		t.Errorf("rate Score() direction = %q, want %q", direction, models.TrendRising)
	}
}

func TestTrendScoreAll(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	fresh := now

	items := []models.ScoredItem{
		{Item: models.ContentItem{Kind: models.KindArticle, PublishedAt: &fresh}},
		{Item: models.ContentItem{Kind: models.KindVenue, CreatedAt: &fresh}},
	}

	NewTrendScorer(nil).ScoreAll(items, now)

	if items[0].TrendScore != 25 {
		t.Errorf("items[0].TrendScore = %d, want 25", items[0].TrendScore)
	}
	if items[1].TrendScore != 20 {
		t.Errorf("items[1].TrendScore = %d, want 20", items[1].TrendScore)
	}
	for i := range items {
		if items[i].TrendDirection != models.TrendStable {
			t.Errorf("items[%d].TrendDirection = %q, want %q", i, items[i].TrendDirection, models.TrendStable)
		}
	}
}
