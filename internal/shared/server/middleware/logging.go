package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"puente-backend/internal/shared/telemetry"
)

// GenerationIDKey is set by handlers that start a generation run.
const GenerationIDKey = "generationId"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		generationID, _ := c.Get(GenerationIDKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":    RequestIDFromContext(c),
			"client_id":     ClientIDFromContext(c),
			"generation_id": generationID,
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        c.Writer.Status(),
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
