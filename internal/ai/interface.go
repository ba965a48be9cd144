package ai

import (
	"context"

	"ecoroute/internal/trip"
)

// Analyzer defines the contract for producing a route analysis from a generative provider.
// Every call is an independent, uncached request: identical inputs may yield different results.
type Analyzer interface {
	// Analyze issues exactly one provider request for req. On success the returned analysis
	// is fully populated and its Sources slice is non-nil. On failure no analysis is returned.
	Analyze(ctx context.Context, req trip.Request) (*trip.RouteAnalysis, error)

	// Close releases provider resources.
	Close() error
}
