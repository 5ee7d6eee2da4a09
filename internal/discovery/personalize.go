// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"sort"
	"strings"

	"github.com/haverstock/trouvaille/internal/models"
)

const (
	categoryMatchBonus    = 10
	tagMatchBonus         = 3
	readingTimeMatchBonus = 5
	readingTimeTolerance  = 3
)

// PersonalizationEngine boosts items matching a user's stated preferences.
// Boost-only: an item never scores below its popularity score and is never
// filtered out, so users with narrow preferences still get full result sets.
type PersonalizationEngine struct{}

// NewPersonalizationEngine creates a personalization engine.
func NewPersonalizationEngine() *PersonalizationEngine {
	return &PersonalizationEngine{}
}

// Score returns the personalized score for one item: its popularity score
// plus preference bonuses.
func (e *PersonalizationEngine) Score(item *models.ScoredItem, prefs *models.UserPreferences) int {
	score := item.PopularityScore
	if prefs == nil {
		return score
	}

	switch item.Item.Kind {
	case models.KindVenue:
		if containsFold(prefs.PreferredCategories, item.Item.Category) {
			score += categoryMatchBonus
		}
		score += tagMatchBonus * tagOverlap(prefs.PreferredTags, item.Item.Tags)
	case models.KindArticle:
		if containsFold(prefs.PreferredArticleCategories, item.Item.Category) {
			score += categoryMatchBonus
		}
		if prefs.PreferredReadingTimeMinutes != nil {
			diff := item.Item.ReadingTimeMinutes - *prefs.PreferredReadingTimeMinutes
			if diff < 0 {
				diff = -diff
			}
			if diff <= readingTimeTolerance {
				score += readingTimeMatchBonus
			}
		}
	}
	return score
}

// Rank personalizes every item in place and stable-sorts by descending
// personal score. Stability keeps the incoming popularity order as the tie
// break, so equal-scoring items do not swap between calls.
func (e *PersonalizationEngine) Rank(items []models.ScoredItem, prefs *models.UserPreferences) {
	for i := range items {
		items[i].PersonalScore = e.Score(&items[i], prefs)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PersonalScore > items[j].PersonalScore
	})
}

// tagOverlap counts distinct preferred tags present on the item,
// case-insensitively. Duplicate tags on either side count once.
func tagOverlap(preferred, tags []string) int {
	if len(preferred) == 0 || len(tags) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		have[strings.ToLower(t)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(preferred))
	overlap := 0
	for _, p := range preferred {
		k := strings.ToLower(p)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := have[k]; ok {
			overlap++
		}
	}
	return overlap
}

func containsFold(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
