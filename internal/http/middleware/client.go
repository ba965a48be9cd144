// README: Client identity middleware. The X-Client-ID header is an opaque, unauthenticated
// key that scopes the latest result, history and quota.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecoroute/internal/modules/analysis"
)

const (
	ClientIDHeader  = "X-Client-ID"
	AnonymousClient = analysis.AnonymousClient

	clientIDKey    = "client_id"
	maxClientIDLen = 64
)

// ClientID resolves the caller's client id, defaulting to AnonymousClient, and rejects
// malformed ids with 400.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if id == "" {
			id = AnonymousClient
		}
		if !IsValidClientID(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
			return
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// CallerClientID returns the id stored by ClientID, or AnonymousClient when the middleware
// did not run.
func CallerClientID(c *gin.Context) string {
	if v := c.GetString(clientIDKey); v != "" {
		return v
	}
	return AnonymousClient
}

// IsValidClientID accepts 1-64 characters of [A-Za-z0-9_-].
func IsValidClientID(v string) bool {
	if v == "" || len(v) > maxClientIDLen {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}
