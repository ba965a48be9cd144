package ai

import (
	"context"
	"fmt"
	"strings"

	legacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"ecoroute/internal/trip"
)

// LegacyAnalyzer implements Analyzer on the generative-ai-go SDK. That SDK cannot enable
// search grounding, so every result carries an empty Sources slice.
type LegacyAnalyzer struct {
	client *legacy.Client
	model  *legacy.GenerativeModel
}

// NewLegacyAnalyzer initializes a generative-ai-go client in JSON mode with the analysis schema.
func NewLegacyAnalyzer(ctx context.Context, apiKey, model string, temperature float32) (*LegacyAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := legacy.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}

	gm := client.GenerativeModel(model)
	gm.ResponseMIMEType = "application/json"
	gm.ResponseSchema = toLegacySchema(BuildSchema())
	gm.SetTemperature(temperature)

	return &LegacyAnalyzer{client: client, model: gm}, nil
}

func (a *LegacyAnalyzer) Close() error {
	return a.client.Close()
}

func (a *LegacyAnalyzer) Analyze(ctx context.Context, req trip.Request) (*trip.RouteAnalysis, error) {
	resp, err := a.model.GenerateContent(ctx, legacy.Text(BuildPrompt(req)))
	if err != nil {
		return nil, err
	}
	return analysisFromLegacy(resp)
}

func analysisFromLegacy(resp *legacy.GenerateContentResponse) (*trip.RouteAnalysis, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no response candidates from Gemini", ErrMalformedResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(legacy.Text); ok {
			text.WriteString(string(txt))
		}
	}

	analysis, err := parseAnalysis(text.String())
	if err != nil {
		return nil, err
	}
	analysis.Sources = []trip.SourceCitation{}
	return analysis, nil
}

var legacyTypes = map[genai.Type]legacy.Type{
	genai.TypeString:  legacy.TypeString,
	genai.TypeNumber:  legacy.TypeNumber,
	genai.TypeInteger: legacy.TypeInteger,
	genai.TypeBoolean: legacy.TypeBoolean,
	genai.TypeArray:   legacy.TypeArray,
	genai.TypeObject:  legacy.TypeObject,
}

// toLegacySchema converts a genai schema into the generative-ai-go representation.
func toLegacySchema(s *genai.Schema) *legacy.Schema {
	if s == nil {
		return nil
	}
	out := &legacy.Schema{
		Type:        legacyTypes[s.Type],
		Description: s.Description,
		Enum:        append([]string(nil), s.Enum...),
		Required:    append([]string(nil), s.Required...),
		Items:       toLegacySchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*legacy.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toLegacySchema(prop)
		}
	}
	return out
}
