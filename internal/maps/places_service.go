package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// CitySuggestion is a simplified autocomplete prediction for the trip form.
type CitySuggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// MaxSuggestions caps the predictions returned to the form.
const MaxSuggestions = 5

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client   *maps.Client
	country  string
	language string
}

// NewPlacesService creates a new PlacesService with the given API Key.
// country restricts predictions (ISO 3166-1 alpha-2, e.g. "br"); language localizes them.
func NewPlacesService(apiKey, country, language string, opts ...maps.ClientOption) (*PlacesService, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client, country: country, language: language}, nil
}

// SuggestCities returns city predictions for a partially typed origin or destination.
// Blank input returns no suggestions without calling the API.
func (s *PlacesService) SuggestCities(ctx context.Context, input string) ([]CitySuggestion, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []CitySuggestion{}, nil
	}

	r := &maps.PlaceAutocompleteRequest{
		Input:    input,
		Types:    maps.AutocompletePlaceTypeCities,
		Language: s.language,
	}
	if s.country != "" {
		r.Components = map[maps.Component][]string{maps.ComponentCountry: {s.country}}
	}

	resp, err := s.client.PlaceAutocomplete(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	results := []CitySuggestion{}
	seen := make(map[string]bool)
	for _, p := range resp.Predictions {
		if p.Description == "" || seen[p.PlaceID] {
			continue
		}
		seen[p.PlaceID] = true
		results = append(results, CitySuggestion{Description: p.Description, PlaceID: p.PlaceID})
		if len(results) >= MaxSuggestions {
			break
		}
	}
	return results, nil
}
