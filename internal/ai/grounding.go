package ai

import (
	"google.golang.org/genai"

	"ecoroute/internal/trip"
)

// extractSources maps the web chunks of the grounding metadata to citations. Chunks without
// a web reference (retrieved context, maps) are skipped. The result is never nil.
func extractSources(meta *genai.GroundingMetadata) []trip.SourceCitation {
	sources := []trip.SourceCitation{}
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, trip.SourceCitation{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}
