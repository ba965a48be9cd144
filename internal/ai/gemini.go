package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"ecoroute/internal/trip"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// contentGenerator is the slice of genai.Models used by GeminiAnalyzer.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer implements Analyzer with Google Search grounding and a JSON response schema.
type GeminiAnalyzer struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGeminiAnalyzer initializes a Gemini client for the Gemini Developer API.
// apiKey is injected by the caller; it is never read from the environment here.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, temperature float32) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiAnalyzer(client.Models, model, temperature), nil
}

func newGeminiAnalyzer(models contentGenerator, model string, temperature float32) *GeminiAnalyzer {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{models: models, model: model, temperature: temperature}
}

// Close is a no-op: the genai client holds no resources beyond its HTTP client.
func (a *GeminiAnalyzer) Close() error {
	return nil
}

// Analyze performs one grounded, schema-constrained generation for req.
// Provider errors are returned as-is so callers can inspect them.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, req trip.Request) (*trip.RouteAnalysis, error) {
	built := BuildRequest(req)

	resp, err := a.models.GenerateContent(ctx, a.model, genai.Text(built.Prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(a.temperature),
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   built.Schema,
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("%w: no response candidates from Gemini", ErrMalformedResponse)
	}
	candidate := resp.Candidates[0]

	analysis, err := parseAnalysis(candidateText(candidate))
	if err != nil {
		return nil, err
	}
	analysis.Sources = extractSources(candidate.GroundingMetadata)
	return analysis, nil
}

// candidateText concatenates the answer parts of a candidate, skipping thought summaries.
func candidateText(c *genai.Candidate) string {
	if c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
