// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

// Package geo provides pure distance and bounding calculations between
// coordinate pairs, plus radius filtering and distance sorting for content
// item lists. The package holds no state and performs no I/O.
package geo

import (
	"fmt"
	"math"

	"github.com/haverstock/trouvaille/internal/models"
)

// Unit selects the distance unit (and the Earth radius constant) used by
// Distance and FormatDistance.
type Unit string

const (
	// UnitKilometers uses a mean Earth radius of 6371 km.
	UnitKilometers Unit = "km"
	// UnitMiles uses a mean Earth radius of 3959 mi.
	UnitMiles Unit = "miles"
)

const (
	earthRadiusKm = 6371.0
	earthRadiusMi = 3959.0

	metersPerKm  = 1000.0
	feetPerMile  = 5280.0
	degToRadians = math.Pi / 180.0
)

// radius returns the Earth radius for the unit. Unknown units fall back to
// kilometers rather than failing; the unit comes from validated config.
func (u Unit) radius() float64 {
	if u == UnitMiles {
		return earthRadiusMi
	}
	return earthRadiusKm
}

// Valid reports whether the unit is one of the supported distance units.
func (u Unit) Valid() bool {
	return u == UnitKilometers || u == UnitMiles
}

// Distance calculates the great-circle distance between two points using the
// Haversine formula, rounded to 2 decimal places. The boolean is false when
// either coordinate is missing or malformed (NaN/Inf components); callers
// treat that as "distance unknown", never as zero.
func Distance(a, b *models.Coordinates, unit Unit) (float64, bool) {
	if !usable(a) || !usable(b) {
		return 0, false
	}

	lat1Rad := a.Lat * degToRadians
	lat2Rad := b.Lat * degToRadians

	dLat := (b.Lat - a.Lat) * degToRadians
	dLon := (b.Lng - a.Lng) * degToRadians

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return roundTo2Decimals(unit.radius() * c), true
}

// WithinRadius reports whether the item's coordinates are present and within
// radius of center. Items without coordinates are never within any radius.
func WithinRadius(center *models.Coordinates, radius float64, item *models.ContentItem, unit Unit) bool {
	d, ok := Distance(center, item.Coordinates, unit)
	return ok && d <= radius
}

// FormatDistance renders a distance for display. Sub-1-unit distances are
// rendered in the smaller unit (meters for km, feet for miles); otherwise as
// "{value}{unit}". An unknown distance renders as an explicit label, never
// silently coerced to 0.
func FormatDistance(d float64, known bool, unit Unit) string {
	if !known {
		return "distance unknown"
	}

	if d < 1 {
		if unit == UnitMiles {
			return fmt.Sprintf("%dft", int(math.Round(d*feetPerMile)))
		}
		return fmt.Sprintf("%dm", int(math.Round(d*metersPerKm)))
	}

	return fmt.Sprintf("%.1f%s", d, unit)
}

// usable reports whether a coordinate is present and has finite components.
func usable(c *models.Coordinates) bool {
	if c == nil {
		return false
	}
	return finite(c.Lat) && finite(c.Lng)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// roundTo2Decimals rounds a float64 to 2 decimal places.
func roundTo2Decimals(f float64) float64 {
	return math.Round(f*100) / 100
}
