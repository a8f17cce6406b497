package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/service"
	"go.uber.org/zap"
)

// RequireScopes gates a route group on the principal's granted scopes.
// Must run after APIKeyAuthMiddleware.
func RequireScopes(logger *zap.Logger, required ...apikey.Scope) gin.HandlerFunc {
	log := logger.Named("RequireScopes")
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.APIErrorResponse{
				Code:    string(service.CodeMissingAPIKey),
				Message: "API key required. Use the X-API-Key header",
			})
			return
		}

		if err := service.Authorize(principal.Key.Scopes, required...); err != nil {
			var missingErr *service.MissingScopesError
			details := interface{}(nil)
			if errors.As(err, &missingErr) {
				details = gin.H{"missing_scopes": apikey.ScopeStrings(missingErr.Missing)}
			}

			log.Debug("Request rejected by scope gate",
				zap.String("key_id", principal.Key.ID.String()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.APIErrorResponse{
				Code:    string(service.CodeMissingScopes),
				Message: err.Error(),
				Details: details,
			})
			return
		}

		c.Next()
	}
}
