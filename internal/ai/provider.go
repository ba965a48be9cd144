package ai

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderGemini       = "gemini"
	ProviderGeminiLegacy = "gemini-legacy"
)

var (
	ErrMissingAPIKey   = errors.New("gemini api key is required")
	ErrUnknownProvider = errors.New("unknown ai provider")
)

// Options selects and configures an Analyzer implementation.
type Options struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float32
}

// NewAnalyzer builds the Analyzer named by opts.Provider. An empty provider means ProviderGemini.
func NewAnalyzer(ctx context.Context, opts Options) (Analyzer, error) {
	switch opts.Provider {
	case "", ProviderGemini:
		return NewGeminiAnalyzer(ctx, opts.APIKey, opts.Model, opts.Temperature)
	case ProviderGeminiLegacy:
		return NewLegacyAnalyzer(ctx, opts.APIKey, opts.Model, opts.Temperature)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}
