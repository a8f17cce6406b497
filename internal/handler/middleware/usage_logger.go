package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seolytics/seo-api/internal/domain/usage"
	"github.com/seolytics/seo-api/internal/service"
)

// UsageLoggerMiddleware captures one usage record per authenticated request
// after the response is finalized. The recorder is fire-and-forget, so the
// persistence latency never shows up in client-visible response time.
func UsageLoggerMiddleware(recorder *service.UsageRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		principal := GetPrincipal(c)
		if principal == nil {
			return
		}

		recorder.Record(&usage.Record{
			ClientID:       principal.Client.ID,
			APIKeyID:       principal.Key.ID,
			Endpoint:       c.Request.URL.Path,
			Method:         c.Request.Method,
			StatusCode:     c.Writer.Status(),
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
			ResponseTimeMS: time.Since(start).Milliseconds(),
		})
	}
}
