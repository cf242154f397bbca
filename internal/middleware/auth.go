// Package middleware provides HTTP middleware for the catalog API.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	headerAPIKey = "X-API-Key"
	headerAuth   = "Authorization"
	bearerPrefix = "Bearer "
)

// APIKeyAuth guards administrative endpoints with a shared API key.
type APIKeyAuth struct {
	apiKeys []string
	logger  *zap.Logger
}

// NewAPIKeyAuth creates the middleware. With no keys configured every
// request is rejected.
func NewAPIKeyAuth(apiKeys []string, logger *zap.Logger) *APIKeyAuth {
	keys := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		if key != "" {
			keys = append(keys, key)
		}
	}

	return &APIKeyAuth{
		apiKeys: keys,
		logger:  logger,
	}
}

// Middleware validates the API key from X-API-Key or a bearer token and
// aborts with 401 when it is missing or wrong.
func (a *APIKeyAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.isValidAPIKey(extractAPIKey(c)) {
			a.logger.Warn("unauthorized request",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("remote_addr", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}

		c.Next()
	}
}

// extractAPIKey checks the X-API-Key header first, then
// Authorization: Bearer.
func extractAPIKey(c *gin.Context) string {
	if apiKey := c.GetHeader(headerAPIKey); apiKey != "" {
		return apiKey
	}

	authHeader := c.GetHeader(headerAuth)
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}

	return ""
}

// isValidAPIKey compares in constant time to avoid leaking key prefixes.
func (a *APIKeyAuth) isValidAPIKey(providedKey string) bool {
	if providedKey == "" || len(a.apiKeys) == 0 {
		return false
	}

	for _, validKey := range a.apiKeys {
		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(validKey)) == 1 {
			return true
		}
	}

	return false
}
