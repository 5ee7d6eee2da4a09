// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package geo

import (
	"math"
	"testing"

	"github.com/haverstock/trouvaille/internal/models"
)

var (
	london = models.Coordinates{Lat: 51.5074, Lng: -0.1278}
	paris  = models.Coordinates{Lat: 48.8566, Lng: 2.3522}
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      *models.Coordinates
		unit      Unit
		want      float64
		tolerance float64
		wantOK    bool
	}{
		{
			name:   "identical points",
			a:      &london,
			b:      &london,
			unit:   UnitKilometers,
			want:   0,
			wantOK: true,
		},
		{
			name:      "london to paris in km",
			a:         &london,
			b:         &paris,
			unit:      UnitKilometers,
			want:      343.5,
			tolerance: 1.0,
			wantOK:    true,
		},
		{
			name:      "london to paris in miles",
			a:         &london,
			b:         &paris,
			unit:      UnitMiles,
			want:      213.5,
			tolerance: 1.0,
			wantOK:    true,
		},
		{
			name:   "nil origin",
			a:      nil,
			b:      &paris,
			unit:   UnitKilometers,
			wantOK: false,
		},
		{
			name:   "nil destination",
			a:      &london,
			b:      nil,
			unit:   UnitKilometers,
			wantOK: false,
		},
		{
			name:   "NaN component",
			a:      &models.Coordinates{Lat: math.NaN(), Lng: 0},
			b:      &paris,
			unit:   UnitKilometers,
			wantOK: false,
		},
		{
			name:   "infinite component",
			a:      &london,
			b:      &models.Coordinates{Lat: 0, Lng: math.Inf(1)},
			unit:   UnitKilometers,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Distance(tt.a, tt.b, tt.unit)
			if ok != tt.wantOK {
				t.Fatalf("Distance() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %f, want %f ± %f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	ab, _ := Distance(&london, &paris, UnitKilometers)
	ba, _ := Distance(&paris, &london, UnitKilometers)
	if ab != ba {
		t.Errorf("Distance(a,b) = %f, Distance(b,a) = %f, want equal", ab, ba)
	}
}

func TestDistanceRoundsToTwoDecimals(t *testing.T) {
	d, ok := Distance(&london, &models.Coordinates{Lat: 51.51, Lng: -0.12}, UnitKilometers)
	if !ok {
		t.Fatal("Distance() ok = false, want true")
	}
	if d != roundTo2Decimals(d) {
		t.Errorf("Distance() = %v, want 2 decimal places", d)
	}
}

func TestUnitValid(t *testing.T) {
	if !UnitKilometers.Valid() || !UnitMiles.Valid() {
		t.Error("supported units report invalid")
	}
	for _, u := range []Unit{"", "mi", "leagues"} {
		if u.Valid() {
			t.Errorf("Unit(%q).Valid() = true, want false", u)
		}
	}
}

func TestWithinRadius(t *testing.T) {
	near := models.ContentItem{Coordinates: &models.Coordinates{Lat: 51.51, Lng: -0.12}}
	far := models.ContentItem{Coordinates: &paris}
	noCoords := models.ContentItem{}

	if !WithinRadius(&london, 5, &near, UnitKilometers) {
		t.Error("WithinRadius(near) = false, want true")
	}
	if WithinRadius(&london, 5, &far, UnitKilometers) {
		t.Error("WithinRadius(far) = true, want false")
	}
	if WithinRadius(&london, 5, &noCoords, UnitKilometers) {
		t.Error("WithinRadius(no coordinates) = true, want false")
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		name  string
		d     float64
		known bool
		unit  Unit
		want  string
	}{
		{"unknown", 0, false, UnitKilometers, "distance unknown"},
		{"sub kilometer in meters", 0.75, true, UnitKilometers, "750m"},
		{"sub mile in feet", 0.5, true, UnitMiles, "2640ft"},
		{"kilometers", 12.34, true, UnitKilometers, "12.3km"},
		{"miles", 3.0, true, UnitMiles, "3.0miles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDistance(tt.d, tt.known, tt.unit); got != tt.want {
				t.Errorf("FormatDistance(%f, %v, %q) = %q, want %q", tt.d, tt.known, tt.unit, got, tt.want)
			}
		})
	}
}

func scoredAt(id string, c *models.Coordinates) models.ScoredItem {
	return models.ScoredItem{Item: models.ContentItem{ID: id, Coordinates: c}}
}

func TestFilterWithinRadius(t *testing.T) {
	items := []models.ScoredItem{
		scoredAt("near", &models.Coordinates{Lat: 51.51, Lng: -0.12}),
		scoredAt("far", &paris),
		scoredAt("unknown", nil),
	}

	filtered := FilterWithinRadius(&london, 5, items, UnitKilometers)
	if len(filtered) != 1 || filtered[0].Item.ID != "near" {
		t.Errorf("FilterWithinRadius() = %v, want [near]", filtered)
	}

	// Filtering is opt-in: nil center or non-positive radius pass through.
	if got := FilterWithinRadius(nil, 5, items, UnitKilometers); len(got) != len(items) {
		t.Errorf("FilterWithinRadius(nil center) dropped items, want passthrough")
	}
	if got := FilterWithinRadius(&london, 0, items, UnitKilometers); len(got) != len(items) {
		t.Errorf("FilterWithinRadius(zero radius) dropped items, want passthrough")
	}
}

func TestAnnotateDistances(t *testing.T) {
	items := []models.ScoredItem{
		scoredAt("here", &london),
		scoredAt("unknown", nil),
	}

	AnnotateDistances(&london, items, UnitKilometers)

	if items[0].Distance == nil || *items[0].Distance != 0 {
		t.Errorf("items[0].Distance = %v, want 0", items[0].Distance)
	}
	if items[1].Distance != nil {
		t.Errorf("items[1].Distance = %v, want nil for missing coordinates", *items[1].Distance)
	}
}

func TestSortByDistance(t *testing.T) {
	items := []models.ScoredItem{
		scoredAt("paris", &paris),
		scoredAt("unknown", nil),
		scoredAt("london", &london),
	}

	SortByDistance(&london, items, UnitKilometers)

	wantOrder := []string{"london", "paris", "unknown"}
	for i, id := range wantOrder {
		if items[i].Item.ID != id {
			t.Fatalf("items[%d].ID = %q, want %q", i, items[i].Item.ID, id)
		}
	}
}

func TestCentroid(t *testing.T) {
	items := []models.ScoredItem{
		scoredAt("a", &models.Coordinates{Lat: 10, Lng: 20}),
		scoredAt("b", &models.Coordinates{Lat: 30, Lng: 40}),
		scoredAt("no coords", nil),
	}

	got := Centroid(items)
	if got.Lat != 20 || got.Lng != 30 {
		t.Errorf("Centroid() = %+v, want {20 30}", got)
	}

	if got := Centroid(nil); got != DefaultCenter {
		t.Errorf("Centroid(nil) = %+v, want DefaultCenter", got)
	}
	if got := Centroid([]models.ScoredItem{scoredAt("x", nil)}); got != DefaultCenter {
		t.Errorf("Centroid(no coordinates) = %+v, want DefaultCenter", got)
	}
}
