// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/modules/aiusage"
	"ecoroute/internal/modules/analysis"
	"ecoroute/internal/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts record ids (uuid text) and nothing that could escape a path segment.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeLookupError maps store lookups; anything unexpected is a 500.
func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analysis.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, analysis.ErrHistoryDisabled), errors.Is(err, analysis.ErrQuotaDisabled):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// writeAnalysisError maps a failed submission. Every provider or parse failure collapses
// into the generic message.
func writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, analysis.FailureMessage)
	}
}
