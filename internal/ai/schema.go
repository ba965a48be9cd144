package ai

import (
	"google.golang.org/genai"

	"ecoroute/internal/trip"
)

// Field names of the structured response. They match the JSON tags of trip.RouteAnalysis.
const (
	FieldDistanceKm           = "distanceKm"
	FieldEstimatedDuration    = "estimatedDuration"
	FieldAverageEfficiency    = "averageEfficiency"
	FieldConsumptionLiters    = "consumptionLiters"
	FieldEstimatedCost        = "estimatedCost"
	FieldRefuelRecommendation = "refuelRecommendation"
	FieldRouteSummary         = "routeSummary"
	FieldStops                = "stops"
	FieldSources              = "sources"
)

// AnalysisFields is the required field list of the response schema, in declaration order.
// FieldSources is declared so every RouteAnalysis field is required, but the model's value is
// discarded: sources always come from grounding metadata.
var AnalysisFields = []string{
	FieldDistanceKm,
	FieldEstimatedDuration,
	FieldAverageEfficiency,
	FieldConsumptionLiters,
	FieldEstimatedCost,
	FieldRefuelRecommendation,
	FieldRouteSummary,
	FieldStops,
	FieldSources,
}

// StopFields is the required field list of every stop entry.
var StopFields = []string{"name", "type", "description", "rating", "distanceFromStart"}

// BuildSchema returns a fresh response schema on every call so callers may adapt it freely.
func BuildSchema() *genai.Schema {
	stopTypes := make([]string, len(trip.StopTypes))
	for i, t := range trip.StopTypes {
		stopTypes[i] = string(t)
	}

	stop := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":              {Type: genai.TypeString},
			"type":              {Type: genai.TypeString, Enum: stopTypes},
			"description":       {Type: genai.TypeString},
			"rating":            {Type: genai.TypeNumber, Description: "0 a 5"},
			"distanceFromStart": {Type: genai.TypeNumber, Description: "km a partir da origem"},
		},
		Required: append([]string(nil), StopFields...),
	}

	source := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString},
			"uri":   {Type: genai.TypeString},
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			FieldDistanceKm:           {Type: genai.TypeNumber},
			FieldEstimatedDuration:    {Type: genai.TypeString},
			FieldAverageEfficiency:    {Type: genai.TypeNumber},
			FieldConsumptionLiters:    {Type: genai.TypeNumber},
			FieldEstimatedCost:        {Type: genai.TypeNumber},
			FieldRefuelRecommendation: {Type: genai.TypeString},
			FieldRouteSummary:         {Type: genai.TypeString},
			FieldStops:                {Type: genai.TypeArray, Items: stop},
			FieldSources: {
				Type:        genai.TypeArray,
				Items:       source,
				Description: "Preenchido pelo sistema com as fontes da pesquisa; retorne uma lista vazia.",
			},
		},
		Required: append([]string(nil), AnalysisFields...),
	}
}
