package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/models"
)

// TokenHeader carries the shared webhook secret configured on the video platform.
const TokenHeader = "X-Webhook-Token"

// WebhookTokenMiddleware rejects requests that do not present token via
// X-Webhook-Token, an Authorization bearer token, or the "token" query
// parameter. An empty token disables the check.
func WebhookTokenMiddleware(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) { c.Next() }
	}

	want := []byte(token)
	return func(c *gin.Context) {
		got := []byte(presentedToken(c))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}

func presentedToken(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(TokenHeader)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.GetHeader("Authorization")); v != "" {
		if rest, ok := strings.CutPrefix(v, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return strings.TrimSpace(c.Query("token"))
}
