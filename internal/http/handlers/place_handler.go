// README: Place handlers (city autocomplete for the trip form).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/maps"
)

const suggestTimeout = 5 * time.Second

// CitySuggester is satisfied by *maps.PlacesService.
type CitySuggester interface {
	SuggestCities(ctx context.Context, input string) ([]maps.CitySuggestion, error)
}

type PlaceHandler struct {
	places CitySuggester
}

// NewPlaceHandler accepts a nil suggester; the endpoint then answers 503.
func NewPlaceHandler(places CitySuggester) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// SuggestCities handles GET /api/places/cities?q=.
func (h *PlaceHandler) SuggestCities(c *gin.Context) {
	if h.places == nil {
		writeError(c, http.StatusServiceUnavailable, "city suggestions are not configured")
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeJSON(c, http.StatusOK, gin.H{"suggestions": []maps.CitySuggestion{}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), suggestTimeout)
	defer cancel()

	out, err := h.places.SuggestCities(ctx, q)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "city suggestions unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": out})
}
