package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/handler/middleware"
	"github.com/seolytics/seo-api/internal/service"
	"go.uber.org/zap"
)

type UsageHandler struct {
	service *service.UsageService
	logger  *zap.Logger
}

func NewUsageHandler(service *service.UsageService, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{
		service: service,
		logger:  logger.Named("UsageHandler"),
	}
}

// Me returns the calling client's profile together with the presenting
// key's metadata and a usage summary.
func (h *UsageHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	cli, key := principal.Client, principal.Key

	summary, err := h.service.Summarize(c.Request.Context(), cli.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ClientInfoResponse{
		Client: clientToResponse(cli),
		APIKeyInfo: dto.APIKeyInfo{
			Name:          key.Name,
			KeyPreview:    key.Preview(),
			Scopes:        apikey.ScopeStrings(key.Scopes),
			TotalRequests: key.TotalRequests,
			LastUsedAt:    key.LastUsedAt,
			ExpiresAt:     key.ExpiresAt,
		},
		UsageSummary: dto.UsageSummary{
			RequestsToday:     summary.RequestsToday,
			AvgResponseTimeMS: summary.AvgResponseTimeMS,
			RateLimits: dto.RateLimits{
				PerMinute: cli.RateLimitPerMinute,
				PerDay:    cli.RateLimitPerDay,
			},
		},
	})
}

func (h *UsageHandler) ListLogs(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	limit, offset := pagination(c)

	logs, err := h.service.ListLogs(c.Request.Context(), principal.Client.ID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
