// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package geo

import (
	"sort"

	"github.com/haverstock/trouvaille/internal/models"
)

// DefaultCenter is the fallback map center used when no item carries
// coordinates and no user location is available (0,0, "Null Island").
// Returning a documented default keeps centroid computation total; it is
// not an error condition.
var DefaultCenter = models.Coordinates{Lat: 0, Lng: 0}

// FilterWithinRadius returns the items whose coordinates lie within radius
// of center. Items without coordinates are dropped. Filtering is opt-in:
// when center is nil or radius is not positive the input is returned
// unchanged, so geo-less callers pass through untouched.
func FilterWithinRadius(center *models.Coordinates, radius float64, items []models.ScoredItem, unit Unit) []models.ScoredItem {
	if center == nil || radius <= 0 {
		return items
	}

	filtered := make([]models.ScoredItem, 0, len(items))
	for i := range items {
		if WithinRadius(center, radius, &items[i].Item, unit) {
			filtered = append(filtered, items[i])
		}
	}
	return filtered
}

// AnnotateDistances computes and stores the distance from center on every
// item, leaving Distance nil where it cannot be computed. A nil center is
// a no-op.
func AnnotateDistances(center *models.Coordinates, items []models.ScoredItem, unit Unit) {
	if center == nil {
		return
	}
	for i := range items {
		if d, ok := Distance(center, items[i].Item.Coordinates, unit); ok {
			dist := d
			items[i].Distance = &dist
		}
	}
}

// SortByDistance annotates distances from center and sorts ascending.
// Items with an unknown distance sort after all items with a known one,
// preserving relative order among themselves and among equal distances.
func SortByDistance(center *models.Coordinates, items []models.ScoredItem, unit Unit) {
	AnnotateDistances(center, items, unit)

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Distance, items[j].Distance
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}

// Centroid returns the mean lat/lng of all items that carry coordinates,
// used as a map-view fallback center when no explicit user location is
// available. Returns DefaultCenter when no item has coordinates.
func Centroid(items []models.ScoredItem) models.Coordinates {
	var sumLat, sumLng float64
	count := 0

	for i := range items {
		c := items[i].Item.Coordinates
		if !usable(c) {
			continue
		}
		sumLat += c.Lat
		sumLng += c.Lng
		count++
	}

	if count == 0 {
		return DefaultCenter
	}

	return models.Coordinates{
		Lat: sumLat / float64(count),
		Lng: sumLng / float64(count),
	}
}
