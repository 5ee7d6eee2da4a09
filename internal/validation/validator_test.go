// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package validation

import (
	"strings"
	"testing"
)

type discoveryParams struct {
	Kind      string   `validate:"required,contentkind"`
	Timeframe string   `validate:"omitempty,timeframe"`
	Unit      string   `validate:"omitempty,distanceunit"`
	Sections  []string `validate:"omitempty,dive,feedsection"`
	Limit     int      `validate:"min=0,max=100"`
}

func TestValidateStructAcceptsValidRequests(t *testing.T) {
	tests := []struct {
		name   string
		params discoveryParams
	}{
		{"venue with all options", discoveryParams{Kind: "venue", Timeframe: "week", Unit: "km", Limit: 10}},
		{"article minimal", discoveryParams{Kind: "article"}},
		{"miles unit", discoveryParams{Kind: "venue", Unit: "miles"}},
		{"all timeframe", discoveryParams{Kind: "venue", Timeframe: "all"}},
		{"feed sections", discoveryParams{Kind: "venue", Sections: []string{"popular_venues", "trending_articles"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.params); err != nil {
				t.Errorf("ValidateStruct() error = %v, want nil", err)
			}
		})
	}
}

func TestValidateStructRejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name      string
		params    discoveryParams
		wantField string
	}{
		{"missing kind", discoveryParams{}, "Kind"},
		{"unknown kind", discoveryParams{Kind: "podcast"}, "Kind"},
		{"unknown timeframe", discoveryParams{Kind: "venue", Timeframe: "year"}, "Timeframe"},
		{"legacy mi abbreviation", discoveryParams{Kind: "venue", Unit: "mi"}, "Unit"},
		{"unknown feed section", discoveryParams{Kind: "venue", Sections: []string{"breaking_news"}}, "Sections[0]"},
		{"limit above max", discoveryParams{Kind: "venue", Limit: 101}, "Limit"},
		{"negative limit", discoveryParams{Kind: "venue", Limit: -1}, "Limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.params)
			if err == nil {
				t.Fatal("ValidateStruct() error = nil, want error")
			}
			found := false
			for _, fe := range err.Errors() {
				if fe.Field() == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("ValidateStruct() errors = %v, want failure on field %q", err.Errors(), tt.wantField)
			}
		})
	}
}

func TestCoordinateRangeValidation(t *testing.T) {
	type located struct {
		Lat float64 `validate:"latitude"`
		Lng float64 `validate:"longitude"`
	}

	if err := ValidateStruct(&located{Lat: 51.5074, Lng: -0.1278}); err != nil {
		t.Errorf("ValidateStruct(valid coordinates) error = %v, want nil", err)
	}
	if err := ValidateStruct(&located{Lat: 91, Lng: 0}); err == nil {
		t.Error("ValidateStruct(lat 91) error = nil, want error")
	}
	if err := ValidateStruct(&located{Lat: 0, Lng: -181}); err == nil {
		t.Error("ValidateStruct(lng -181) error = nil, want error")
	}
}

func TestToAPIErrorSingleFailure(t *testing.T) {
	err := ValidateStruct(&discoveryParams{Kind: "podcast"})
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "Kind" {
		t.Errorf("Details[field] = %v, want Kind", apiErr.Details["field"])
	}
	if apiErr.Details["value"] != "podcast" {
		t.Errorf("Details[value] = %v, want podcast", apiErr.Details["value"])
	}
}

func TestToAPIErrorMultipleFailures(t *testing.T) {
	err := ValidateStruct(&discoveryParams{Kind: "podcast", Timeframe: "year", Limit: 500})
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want error")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("len(Errors()) = %d, want 3", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] is %T, want []map[string]interface{}", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("len(fields) = %d, want 3", len(fields))
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("Message = %q, want joined messages", apiErr.Message)
	}
}

func TestDistanceUnitErrorMessage(t *testing.T) {
	err := ValidateStruct(&discoveryParams{Kind: "venue", Unit: "leagues"})
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "km or miles") {
		t.Errorf("Error() = %q, want it to name the supported units", msg)
	}
}

func TestGetValidatorReturnsSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
