// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package models

import (
	"testing"
	"time"
)

func TestContentKindValid(t *testing.T) {
	if !KindVenue.Valid() || !KindArticle.Valid() {
		t.Error("supported kinds report invalid")
	}
	for _, k := range []ContentKind{"", "podcast", "Venue"} {
		if k.Valid() {
			t.Errorf("ContentKind(%q).Valid() = true, want false", k)
		}
	}
}

func TestContentItemTimestamp(t *testing.T) {
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	published := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		item   ContentItem
		want   time.Time
		wantOK bool
	}{
		{"created at set", ContentItem{CreatedAt: &created}, created, true},
		{"published at set", ContentItem{PublishedAt: &published}, published, true},
		{"created at wins when both set", ContentItem{CreatedAt: &created, PublishedAt: &published}, created, true},
		{"neither set", ContentItem{}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.Timestamp()
			if ok != tt.wantOK {
				t.Fatalf("Timestamp() ok = %v, want %v", ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Timestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
