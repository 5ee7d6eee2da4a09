// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"math/rand"
	"testing"

	"github.com/haverstock/trouvaille/internal/models"
)

func makeScored(prefix string, n, popularity, trend int) []models.ScoredItem {
	items := make([]models.ScoredItem, n)
	for i := range items {
		items[i] = models.ScoredItem{
			Item:            models.ContentItem{ID: prefix + string(rune('a'+i))},
			PopularityScore: popularity,
			TrendScore:      trend,
		}
	}
	return items
}

func TestFeedComposeRespectsSectionSizeAndLimit(t *testing.T) {
	composer := NewFeedComposer(FeedConfig{SectionSize: 2, DiversityBonus: 5})
	rng := rand.New(rand.NewSource(1))

	sections := []sectionResult{
		{section: models.SectionPopularVenues, items: makeScored("pv", 4, 40, 10)},
		{section: models.SectionTrendingArticles, items: makeScored("ta", 4, 10, 30)},
	}

	feed := composer.Compose(sections, nil, 3, rng)

	if len(feed) != 3 {
		t.Fatalf("len(feed) = %d, want 3", len(feed))
	}
	for i, it := range feed {
		if it.FeedPosition != i {
			t.Errorf("feed[%d].FeedPosition = %d, want %d", i, it.FeedPosition, i)
		}
	}
}

func TestFeedComposeDiversityBonus(t *testing.T) {
	composer := NewFeedComposer(FeedConfig{SectionSize: 5, DiversityBonus: 5})
	rng := rand.New(rand.NewSource(1))

	sections := []sectionResult{
		{section: models.SectionPopularVenues, items: makeScored("pv", 1, 40, 10)},
		{section: models.SectionTrendingVenues, items: makeScored("tv", 1, 40, 10)},
	}
	recentlySeen := []models.FeedSection{models.SectionPopularVenues}

	feed := composer.Compose(sections, recentlySeen, 0, rng)

	if len(feed) != 2 {
		t.Fatalf("len(feed) = %d, want 2", len(feed))
	}
	byID := map[string]models.DiscoveryFeedItem{}
	for _, it := range feed {
		byID[it.Item.ID] = it
	}

	// Recently seen section scores on popularity alone; the unseen trending
	// section scores on trend plus the diversity bonus.
	if got := byID["pva"].DiscoveryScore; got != 40 {
		t.Errorf("seen section DiscoveryScore = %d, want 40", got)
	}
	if got := byID["tva"].DiscoveryScore; got != 15 {
		t.Errorf("unseen section DiscoveryScore = %d, want 15", got)
	}
}

func TestFeedComposeDeterministicUnderFixedSeed(t *testing.T) {
	composer := NewFeedComposer(FeedConfig{SectionSize: 5, DiversityBonus: 5})

	sections := []sectionResult{
		{section: models.SectionPopularVenues, items: makeScored("pv", 5, 40, 10)},
		{section: models.SectionPopularArticles, items: makeScored("pa", 5, 20, 5)},
	}

	first := composer.Compose(sections, nil, 10, rand.New(rand.NewSource(42)))
	second := composer.Compose(sections, nil, 10, rand.New(rand.NewSource(42)))

	if len(first) != len(second) {
		t.Fatalf("feed lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Item.ID != second[i].Item.ID {
			t.Errorf("feed[%d] differs: %q vs %q", i, first[i].Item.ID, second[i].Item.ID)
		}
	}
}

func TestFeedComposeDrawsFromFullPool(t *testing.T) {
	composer := NewFeedComposer(FeedConfig{SectionSize: 10, DiversityBonus: 5})
	rng := rand.New(rand.NewSource(7))

	sections := []sectionResult{
		{section: models.SectionPopularVenues, items: makeScored("pv", 5, 40, 10)},
		{section: models.SectionTrendingVenues, items: makeScored("tv", 5, 30, 20)},
		{section: models.SectionPopularArticles, items: makeScored("pa", 5, 20, 5)},
		{section: models.SectionTrendingArticles, items: makeScored("ta", 5, 10, 30)},
	}

	feed := composer.Compose(sections, nil, 10, rng)

	if len(feed) != 10 {
		t.Fatalf("len(feed) = %d, want 10", len(feed))
	}
	ids := map[string]struct{}{}
	for _, it := range feed {
		if _, dup := ids[it.Item.ID]; dup {
			t.Errorf("duplicate item %q in feed", it.Item.ID)
		}
		ids[it.Item.ID] = struct{}{}
	}
}
