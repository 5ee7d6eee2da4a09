// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"math/rand"

	"github.com/haverstock/trouvaille/internal/models"
)

// FeedComposer assembles the mixed discovery feed. It owns no RNG;
// the caller injects one so feeds are reproducible under a fixed seed.
type FeedComposer struct {
	cfg FeedConfig
}

// NewFeedComposer creates a feed composer.
func NewFeedComposer(cfg FeedConfig) *FeedComposer {
	return &FeedComposer{cfg: cfg}
}

// sectionResult is one scored branch of the feed fan-out.
type sectionResult struct {
	section models.FeedSection
	items   []models.ScoredItem
}

// Compose merges per-section results into a single shuffled feed of at most
// limit items. recentlySeen lists sections the user was recently served;
// items from other sections receive the diversity bonus on their discovery
// score. The shuffle uses the injected rng, so ordering is fair across
// sections rather than popularity-sorted end to end.
func (c *FeedComposer) Compose(sections []sectionResult, recentlySeen []models.FeedSection, limit int, rng *rand.Rand) []models.DiscoveryFeedItem {
	seen := make(map[models.FeedSection]struct{}, len(recentlySeen))
	for _, s := range recentlySeen {
		seen[s] = struct{}{}
	}

	var feed []models.DiscoveryFeedItem
	for _, sec := range sections {
		items := sec.items
		if len(items) > c.cfg.SectionSize {
			items = items[:c.cfg.SectionSize]
		}
		for _, it := range items {
			score := sectionScore(sec.section, &it)
			if _, ok := seen[sec.section]; !ok {
				score += c.cfg.DiversityBonus
			}
			feed = append(feed, models.DiscoveryFeedItem{
				ScoredItem:     it,
				FeedSection:    sec.section,
				DiscoveryScore: score,
			})
		}
	}

	// Fisher-Yates via rand.Shuffle on the injected source.
	rng.Shuffle(len(feed), func(i, j int) {
		feed[i], feed[j] = feed[j], feed[i]
	})

	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	for i := range feed {
		feed[i].FeedPosition = i
	}
	return feed
}

// sectionScore picks the score that put the item in its section.
func sectionScore(section models.FeedSection, it *models.ScoredItem) int {
	switch section {
	case models.SectionTrendingVenues, models.SectionTrendingArticles:
		return it.TrendScore
	default:
		return it.PopularityScore
	}
}
