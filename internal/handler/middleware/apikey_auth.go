package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/service"
	"go.uber.org/zap"
)

const (
	apiKeyHeader        = "X-API-Key"
	principalContextKey = "authPrincipal"
)

// Principal is the authenticated identity placed in the request context once
// the admission pipeline admits a request.
type Principal struct {
	Client *client.Client
	Key    *apikey.APIKey
}

// Verifier is what the middleware needs from the Authenticator.
type Verifier interface {
	Verify(ctx context.Context, rawKey, clientIP string) service.AuthResult
}

// APIKeyAuthMiddleware runs the verification pipeline and translates its
// tagged result into transport terms: HTTP status, error body, and quota
// headers on 429. The core stays free of HTTP concerns.
func APIKeyAuthMiddleware(verifier Verifier, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("APIKeyAuthMiddleware")
	return func(c *gin.Context) {
		rawKey := c.GetHeader(apiKeyHeader)

		result := verifier.Verify(c.Request.Context(), rawKey, c.ClientIP())

		if !result.Admitted() {
			rej := result.Rejection
			status := statusForRejection(rej.Code)

			if rej.Code == service.CodeRateLimitExceeded && result.Rate != nil {
				setRateLimitHeaders(c, result.Rate)
			}
			if status == http.StatusUnauthorized {
				c.Header("WWW-Authenticate", "ApiKey")
			}

			log.Debug("Request rejected by admission pipeline",
				zap.String("code", string(rej.Code)),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(status, dto.APIErrorResponse{
				Code:    string(rej.Code),
				Message: rej.Message,
			})
			return
		}

		c.Set(principalContextKey, &Principal{Client: result.Client, Key: result.Key})
		c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or nil on routes that
// did not pass through APIKeyAuthMiddleware.
func GetPrincipal(c *gin.Context) *Principal {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*Principal)
	if !ok {
		return nil
	}
	return principal
}

func statusForRejection(code service.RejectCode) int {
	switch code {
	case service.CodeMissingAPIKey, service.CodeMalformedAPIKey, service.CodeInvalidAPIKey:
		return http.StatusUnauthorized
	case service.CodeClientNotFound, service.CodeKeyNotActive, service.CodeKeyExpired,
		service.CodeClientInactive, service.CodeIPNotAllowed, service.CodeMissingScopes:
		return http.StatusForbidden
	case service.CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func setRateLimitHeaders(c *gin.Context, rate *service.RateInfo) {
	c.Header("X-RateLimit-Limit-Minute", strconv.Itoa(rate.MinuteLimit))
	c.Header("X-RateLimit-Limit-Day", strconv.Itoa(rate.DayLimit))
	c.Header("X-RateLimit-Remaining-Minute", strconv.FormatInt(rate.RemainingMinute, 10))
	c.Header("X-RateLimit-Remaining-Day", strconv.FormatInt(rate.RemainingDay, 10))
}
