// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"time"

	"github.com/haverstock/trouvaille/internal/models"
)

// Timeframe is the recency window a popularity or trend query considers.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeAll   Timeframe = "all"
)

// Days returns the day-count window of the timeframe.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeDay:
		return 1
	case TimeframeWeek:
		return 7
	case TimeframeMonth:
		return 30
	default:
		return 365
	}
}

// Valid reports whether the timeframe is one of the known windows.
func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeDay, TimeframeWeek, TimeframeMonth, TimeframeAll:
		return true
	default:
		return false
	}
}

// missingTimestampAgeDays is the age assumed for items without a recorded
// timestamp: very old rather than very new, so malformed records are never
// unfairly boosted.
const missingTimestampAgeDays = 365.0

// minDecayFactor is the floor of the recency multiplier; old items keep a
// small residual score instead of vanishing.
const minDecayFactor = 0.1

const hoursPerDay = 24.0

// AgeInDays returns the item's age relative to now, in fractional days.
// Items without a timestamp age as missingTimestampAgeDays. Timestamps in
// the future clamp to zero.
func AgeInDays(item *models.ContentItem, now time.Time) float64 {
	ts, ok := item.Timestamp()
	if !ok {
		return missingTimestampAgeDays
	}
	age := now.Sub(ts).Hours() / hoursPerDay
	if age < 0 {
		return 0
	}
	return age
}

// DecayFactor converts an item's age into a multiplier in [minDecayFactor, 1]
// relative to the timeframe window. Articles decay at half the venue rate so
// they remain discoverable longer.
func DecayFactor(ageInDays float64, timeframe Timeframe, kind models.ContentKind) float64 {
	window := float64(timeframe.Days())
	if kind == models.KindArticle {
		window *= 2
	}

	factor := 1 - ageInDays/window
	if factor < minDecayFactor {
		return minDecayFactor
	}
	return factor
}
