// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package models

import (
	"time"
)

// ContentKind classifies content items by their variant.
type ContentKind string

const (
	// KindVenue is a physical place-of-interest record carrying address and
	// coordinate data (a "third place").
	KindVenue ContentKind = "venue"
	// KindArticle is an editorial content record.
	KindArticle ContentKind = "article"
)

// Valid reports whether the kind is one of the known content kinds.
func (k ContentKind) Valid() bool {
	return k == KindVenue || k == KindArticle
}

// Coordinates is a resolved geographic position.
//
// Coordinates are always consumed already-resolved; geocoding is the
// address collaborator's concern.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EngagementCounters holds the named engagement signals attached to a
// content item. Counters are read-only snapshots from the source of truth;
// missing fields default to zero rather than being treated as errors.
//
// Named fields (rather than an open key-value bag) catch counter-name typos
// at compile time.
type EngagementCounters struct {
	// Regulars is the number of users who marked a venue as a regular spot.
	Regulars int `json:"regulars,omitempty"`

	// Views is the article view count.
	Views int `json:"views,omitempty"`

	// BlogMentions is the number of articles cross-referencing a venue.
	BlogMentions int `json:"blog_mentions,omitempty"`

	// LinkedContent is the number of venues an article links to.
	LinkedContent int `json:"linked_content,omitempty"`
}

// ContentItem is a single discoverable record: a venue or an article.
// All fields are optional except ID and Kind; scoring treats missing
// fields as zero-weight contributions.
type ContentItem struct {
	// ID is the opaque stable identifier assigned by the catalog.
	ID string `json:"id"`

	// Kind is the content variant (venue or article).
	Kind ContentKind `json:"kind"`

	// Name is the display title.
	Name string `json:"name,omitempty"`

	// Category is an optional short classification tag.
	Category string `json:"category,omitempty"`

	// Tags is an unordered set of amenity/topic labels (bounded at 20 upstream).
	Tags []string `json:"tags,omitempty"`

	// Description is the free-form body text; its length feeds the
	// completeness bonus for venues.
	Description string `json:"description,omitempty"`

	// PhotoCount is the number of attached photos.
	PhotoCount int `json:"photo_count,omitempty"`

	// ReadingTimeMinutes is the estimated reading time (articles only).
	ReadingTimeMinutes int `json:"reading_time_minutes,omitempty"`

	// CreatedAt is set for venues, PublishedAt for articles. Nil means the
	// timestamp was never recorded; scoring ages such records as very old.
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Coordinates is present only for venue-kind items with a resolved address.
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// Counters is the engagement snapshot for this item.
	Counters EngagementCounters `json:"counters"`
}

// Timestamp returns the item's creation or publication time, whichever is
// set. The boolean is false when neither is recorded.
func (c *ContentItem) Timestamp() (time.Time, bool) {
	if c.CreatedAt != nil {
		return *c.CreatedAt, true
	}
	if c.PublishedAt != nil {
		return *c.PublishedAt, true
	}
	return time.Time{}, false
}

// TrendDirection is the coarse classification of an item's recent momentum.
type TrendDirection string

const (
	TrendRising    TrendDirection = "rising"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// ScoredItem is a ContentItem annotated with the scores the engine computed
// for it. Only the scores relevant to the requested operation are populated.
type ScoredItem struct {
	// Item is the underlying content record.
	Item ContentItem `json:"item"`

	// PopularityScore is the cumulative-engagement score (integer >= 0).
	PopularityScore int `json:"popularity_score,omitempty"`

	// TrendScore is the short-horizon momentum score (integer >= 0).
	TrendScore int `json:"trend_score,omitempty"`

	// PersonalScore is PopularityScore plus preference bonuses.
	PersonalScore int `json:"personal_score,omitempty"`

	// Distance is the distance from the request's reference location, in the
	// request's unit. Nil when either side lacks coordinates.
	Distance *float64 `json:"distance,omitempty"`

	// Reason is a human-readable classification of why the item ranked,
	// derived deterministically from its score band.
	Reason string `json:"reason,omitempty"`

	// TrendDirection is set alongside TrendScore.
	TrendDirection TrendDirection `json:"trend_direction,omitempty"`
}

// UserPreferences is a user's declared taste profile. Empty or partial
// records are valid; absent preferences contribute zero bonus rather than
// excluding items.
type UserPreferences struct {
	// PreferredCategories matches venue categories.
	PreferredCategories []string `json:"preferred_categories,omitempty"`

	// PreferredTags matches venue amenity/topic tags.
	PreferredTags []string `json:"preferred_tags,omitempty"`

	// PreferredArticleCategories matches article categories.
	PreferredArticleCategories []string `json:"preferred_article_categories,omitempty"`

	// PreferredReadingTimeMinutes is the user's reading-time affinity.
	// Nil means no preference.
	PreferredReadingTimeMinutes *int `json:"preferred_reading_time_minutes,omitempty"`

	// Location is the user's coordinate, when shared.
	Location *Coordinates `json:"location,omitempty"`
}

// FeedSection identifies which pre-ranked sub-list a discovery feed item
// came from.
type FeedSection string

const (
	SectionPopularVenues    FeedSection = "popular_venues"
	SectionTrendingVenues   FeedSection = "trending_venues"
	SectionPopularArticles  FeedSection = "popular_articles"
	SectionTrendingArticles FeedSection = "trending_articles"
)

// FeedSections lists the known discovery feed sections in composition order.
var FeedSections = []FeedSection{
	SectionPopularVenues,
	SectionTrendingVenues,
	SectionPopularArticles,
	SectionTrendingArticles,
}

// DiscoveryFeedItem is a ScoredItem annotated with its position in the
// composed discovery feed.
type DiscoveryFeedItem struct {
	ScoredItem

	// FeedSection is the sub-ranking this item came from.
	FeedSection FeedSection `json:"feed_section"`

	// FeedPosition is the final order index after shuffle and truncation.
	FeedPosition int `json:"feed_position"`

	// DiscoveryScore is the originating rank score plus the diversity bonus.
	// Informational only: the composer shuffles deliberately, so this value
	// is not stable across calls and never re-sorts the output.
	DiscoveryScore int `json:"discovery_score"`
}
