package ai

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGeminiLive calls the real provider. Results are not compared across calls; only shape.
func TestGeminiLive(t *testing.T) {
	if os.Getenv("ECOROUTE_LIVE_GEMINI") != "1" {
		t.Skip("ECOROUTE_LIVE_GEMINI not set; skipping live provider test")
	}
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	analyzer, err := NewGeminiAnalyzer(ctx, key, os.Getenv("ECOROUTE_AI_MODEL"), 0.4)
	require.NoError(t, err)
	defer analyzer.Close()

	got, err := analyzer.Analyze(ctx, sampleRequest())
	require.NoError(t, err)
	assert.Greater(t, got.DistanceKm, 0.0)
	assert.NotEmpty(t, got.Stops)
	assert.NotNil(t, got.Sources)
	t.Logf("distance=%.1fkm stops=%d sources=%d", got.DistanceKm, len(got.Stops), len(got.Sources))
}
