package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/auth"
)

const ownerKey = "ownerID"

// authMiddleware verifies the bearer token and stores the caller's owner id.
func authMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			jsonError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		owner, err := verifier.Verify(token)
		if err != nil {
			jsonError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ownerKey, owner)
		c.Next()
	}
}

// ownerID returns the authenticated caller. Only valid behind authMiddleware.
func ownerID(c *gin.Context) uuid.UUID {
	return c.MustGet(ownerKey).(uuid.UUID)
}

// corsMiddleware answers preflight requests and sets CORS headers for the
// allowed origins. "*" allows any origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	anyOrigin := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (anyOrigin || slices.Contains(origins, origin)) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
