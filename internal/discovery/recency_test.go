// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"math"
	"testing"
	"time"

	"github.com/haverstock/trouvaille/internal/models"
)

func TestTimeframeDays(t *testing.T) {
	tests := []struct {
		timeframe Timeframe
		want      int
	}{
		{TimeframeDay, 1},
		{TimeframeWeek, 7},
		{TimeframeMonth, 30},
		{TimeframeAll, 365},
		{Timeframe("bogus"), 365},
	}

	for _, tt := range tests {
		if got := tt.timeframe.Days(); got != tt.want {
			t.Errorf("Timeframe(%q).Days() = %d, want %d", tt.timeframe, got, tt.want)
		}
	}
}

func TestTimeframeValid(t *testing.T) {
	for _, tf := range []Timeframe{TimeframeDay, TimeframeWeek, TimeframeMonth, TimeframeAll} {
		if !tf.Valid() {
			t.Errorf("Timeframe(%q).Valid() = false, want true", tf)
		}
	}
	for _, tf := range []Timeframe{"", "year", "fortnight"} {
		if tf.Valid() {
			t.Errorf("Timeframe(%q).Valid() = true, want false", tf)
		}
	}
}

func TestAgeInDays(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	threeDaysAgo := now.AddDate(0, 0, -3)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name string
		item models.ContentItem
		want float64
	}{
		{
			name: "venue created 3 days ago",
			item: models.ContentItem{Kind: models.KindVenue, CreatedAt: &threeDaysAgo},
			want: 3,
		},
		{
			name: "article published 3 days ago",
			item: models.ContentItem{Kind: models.KindArticle, PublishedAt: &threeDaysAgo},
			want: 3,
		},
		{
			name: "missing timestamp ages as very old",
			item: models.ContentItem{Kind: models.KindVenue},
			want: 365,
		},
		{
			name: "future timestamp clamps to zero",
			item: models.ContentItem{Kind: models.KindVenue, CreatedAt: &tomorrow},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeInDays(&tt.item, now)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AgeInDays() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDecayFactor(t *testing.T) {
	tests := []struct {
		name      string
		age       float64
		timeframe Timeframe
		kind      models.ContentKind
		want      float64
	}{
		{"fresh venue", 0, TimeframeWeek, models.KindVenue, 1.0},
		{"venue 3 of 7 days", 3, TimeframeWeek, models.KindVenue, 1 - 3.0/7.0},
		{"venue beyond window floors at 0.1", 400, TimeframeWeek, models.KindVenue, 0.1},
		{"article window is doubled", 7, TimeframeWeek, models.KindArticle, 0.5},
		{"article beyond doubled window floors at 0.1", 100, TimeframeWeek, models.KindArticle, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecayFactor(tt.age, tt.timeframe, tt.kind)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DecayFactor(%f, %q, %q) = %f, want %f", tt.age, tt.timeframe, tt.kind, got, tt.want)
			}
		})
	}
}

func TestDecayFactorNeverBelowFloor(t *testing.T) {
	for _, kind := range []models.ContentKind{models.KindVenue, models.KindArticle} {
		for _, tf := range []Timeframe{TimeframeDay, TimeframeWeek, TimeframeMonth, TimeframeAll} {
			for age := 0.0; age <= 1000; age += 37.5 {
				got := DecayFactor(age, tf, kind)
				if got < 0.1 || got > 1.0 {
					t.Fatalf("DecayFactor(%f, %q, %q) = %f, want within [0.1, 1]", age, tf, kind, got)
				}
			}
		}
	}
}
