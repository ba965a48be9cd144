package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ecoroute/internal/trip"
)

// ErrMalformedResponse is returned when the provider answered but the payload is not a
// RouteAnalysis: no text, invalid JSON, missing or null required fields, or a stop outside
// the declared shape.
var ErrMalformedResponse = errors.New("malformed analysis response")

// parseAnalysis decodes the provider text into a RouteAnalysis. It is all-or-nothing:
// either every required field is present and well typed, or an error is returned.
// Sources is left for the caller to fill from grounding metadata.
func parseAnalysis(text string) (*trip.RouteAnalysis, error) {
	cleaned := cleanJSONString(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedResponse)
	}
	for _, name := range AnalysisFields {
		if name == FieldSources {
			continue
		}
		if err := requireValue(fields, name); err != nil {
			return nil, err
		}
	}

	var stops []map[string]json.RawMessage
	if err := json.Unmarshal(fields[FieldStops], &stops); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, FieldStops, err)
	}
	for i, stop := range stops {
		if stop == nil {
			return nil, fmt.Errorf("%w: stops[%d] is null", ErrMalformedResponse, i)
		}
		for _, name := range StopFields {
			if err := requireValue(stop, name); err != nil {
				return nil, fmt.Errorf("stops[%d]: %w", i, err)
			}
		}
	}

	var analysis trip.RouteAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for i, stop := range analysis.Stops {
		if !stop.Type.Valid() {
			return nil, fmt.Errorf("%w: stops[%d].type %q is not a known stop type", ErrMalformedResponse, i, stop.Type)
		}
	}
	if analysis.Stops == nil {
		analysis.Stops = []trip.StopPoint{}
	}
	analysis.Sources = nil
	return &analysis, nil
}

// requireValue fails when name is absent or explicitly null.
func requireValue(fields map[string]json.RawMessage, name string) error {
	raw, ok := fields[name]
	if !ok {
		return fmt.Errorf("%w: missing field %q", ErrMalformedResponse, name)
	}
	if strings.TrimSpace(string(raw)) == "null" {
		return fmt.Errorf("%w: field %q is null", ErrMalformedResponse, name)
	}
	return nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
