// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"testing"

	"github.com/haverstock/trouvaille/internal/models"
)

func intPtr(v int) *int { return &v }

func TestPersonalizationScore(t *testing.T) {
	engine := NewPersonalizationEngine()

	tests := []struct {
		name  string
		item  models.ScoredItem
		prefs *models.UserPreferences
		want  int
	}{
		{
			name: "nil preferences returns popularity unchanged",
			item: models.ScoredItem{
				Item:            models.ContentItem{Kind: models.KindVenue, Category: "cafe"},
				PopularityScore: 40,
			},
			prefs: nil,
			want:  40,
		},
		{
			name: "venue category match",
			item: models.ScoredItem{
				Item:            models.ContentItem{Kind: models.KindVenue, Category: "Cafe"},
				PopularityScore: 40,
			},
			prefs: &models.UserPreferences{PreferredCategories: []string{"cafe"}},
			want:  50,
		},
		{
			name: "venue tag overlap is per distinct match",
			item: models.ScoredItem{
				Item: models.ContentItem{
					Kind: models.KindVenue,
					Tags: []string{"Quiet", "wifi", "outdoor"},
				},
				PopularityScore: 40,
			},
			prefs: &models.UserPreferences{PreferredTags: []string{"quiet", "WIFI", "quiet", "books"}},
			want:  46,
		},
		{
			name: "venue category and tags stack",
			item: models.ScoredItem{
				Item: models.ContentItem{
					Kind:     models.KindVenue,
					Category: "park",
					Tags:     []string{"dogs"},
				},
				PopularityScore: 10,
			},
			prefs: &models.UserPreferences{
				PreferredCategories: []string{"park"},
				PreferredTags:       []string{"dogs"},
			},
			want: 23,
		},
		{
			name: "article category match",
			item: models.ScoredItem{
				Item:            models.ContentItem{Kind: models.KindArticle, Category: "food"},
				PopularityScore: 30,
			},
			prefs: &models.UserPreferences{PreferredArticleCategories: []string{"Food"}},
			want:  40,
		},
		{
			name: "article reading time within tolerance",
			item: models.ScoredItem{
				Item:            models.ContentItem{Kind: models.KindArticle, ReadingTimeMinutes: 10},
				PopularityScore: 30,
			},
			prefs: &models.UserPreferences{PreferredReadingTimeMinutes: intPtr(7)},
			want:  35,
		},
		{
			name: "article reading time outside tolerance",
			item: models.ScoredItem{
				Item:            models.ContentItem{Kind: models.KindArticle, ReadingTimeMinutes: 11},
				PopularityScore: 30,
			},
			prefs: &models.UserPreferences{PreferredReadingTimeMinutes: intPtr(7)},
			want:  30,
		},
		{
			name: "venue preferences do not leak onto articles",
			item: models.ScoredItem{
				Item:            models.ContentItem{Kind: models.KindArticle, Category: "cafe", Tags: []string{"quiet"}},
				PopularityScore: 30,
			},
			prefs: &models.UserPreferences{
				PreferredCategories: []string{"cafe"},
				PreferredTags:       []string{"quiet"},
			},
			want: 30,
		},
		{
			name: "no matches never drops below popularity",
			item: models.ScoredItem{
				Item:            models.ContentItem{Kind: models.KindVenue, Category: "gym"},
				PopularityScore: 25,
			},
			prefs: &models.UserPreferences{
				PreferredCategories: []string{"cafe", "park"},
				PreferredTags:       []string{"quiet"},
			},
			want: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.Score(&tt.item, tt.prefs); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPersonalizationRank(t *testing.T) {
	engine := NewPersonalizationEngine()

	items := []models.ScoredItem{
		{Item: models.ContentItem{ID: "a", Kind: models.KindVenue, Category: "gym"}, PopularityScore: 50},
		{Item: models.ContentItem{ID: "b", Kind: models.KindVenue, Category: "cafe"}, PopularityScore: 45},
		{Item: models.ContentItem{ID: "c", Kind: models.KindVenue, Category: "park"}, PopularityScore: 45},
	}
	prefs := &models.UserPreferences{PreferredCategories: []string{"cafe"}}

	engine.Rank(items, prefs)

	wantOrder := []string{"b", "a", "c"}
	for i, id := range wantOrder {
		if items[i].Item.ID != id {
			t.Fatalf("items[%d].ID = %q, want %q", i, items[i].Item.ID, id)
		}
	}
	if items[0].PersonalScore != 55 {
		t.Errorf("items[0].PersonalScore = %d, want 55", items[0].PersonalScore)
	}
}

func TestPersonalizationRankIsStable(t *testing.T) {
	engine := NewPersonalizationEngine()

	// All items tie at the same score; order must survive unchanged.
	items := []models.ScoredItem{
		{Item: models.ContentItem{ID: "first", Kind: models.KindVenue}, PopularityScore: 10},
		{Item: models.ContentItem{ID: "second", Kind: models.KindVenue}, PopularityScore: 10},
		{Item: models.ContentItem{ID: "third", Kind: models.KindVenue}, PopularityScore: 10},
	}

	engine.Rank(items, &models.UserPreferences{})

	for i, id := range []string{"first", "second", "third"} {
		if items[i].Item.ID != id {
			t.Fatalf("items[%d].ID = %q, want %q", i, items[i].Item.ID, id)
		}
	}
}

func TestTagOverlap(t *testing.T) {
	tests := []struct {
		name      string
		preferred []string
		tags      []string
		want      int
	}{
		{"no preferences", nil, []string{"quiet"}, 0},
		{"no tags", []string{"quiet"}, nil, 0},
		{"case insensitive", []string{"QUIET"}, []string{"quiet"}, 1},
		{"duplicates count once", []string{"quiet", "Quiet"}, []string{"quiet", "QUIET"}, 1},
		{"partial overlap", []string{"quiet", "wifi", "books"}, []string{"wifi", "outdoor", "quiet"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagOverlap(tt.preferred, tt.tags); got != tt.want {
				t.Errorf("tagOverlap(%v, %v) = %d, want %d", tt.preferred, tt.tags, got, tt.want)
			}
		})
	}
}
