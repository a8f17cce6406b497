package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/seolytics/seo-api/internal/service"
	"go.uber.org/zap"
)

type APIKeyHandler struct {
	service *service.APIKeyService
	logger  *zap.Logger
}

func NewAPIKeyHandler(service *service.APIKeyService, logger *zap.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		service: service,
		logger:  logger.Named("APIKeyHandler"),
	}
}

func (h *APIKeyHandler) Create(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid client id format", ierr.ErrValidation))
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind create api key request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), clientID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("API key created via handler", zap.String("id", resp.ID.String()))
	c.JSON(http.StatusCreated, resp)
}

func (h *APIKeyHandler) List(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid client id format", ierr.ErrValidation))
		return
	}

	var statusFilter *apikey.Status
	if v := c.Query("status"); v != "" {
		s := apikey.Status(v)
		if s != apikey.StatusActive && s != apikey.StatusRevoked && s != apikey.StatusExpired {
			_ = c.Error(fmt.Errorf("%w: invalid status filter %q", ierr.ErrValidation, v))
			return
		}
		statusFilter = &s
	}

	keys, err := h.service.List(c.Request.Context(), clientID, statusFilter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, keys)
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	clientID, keyID, err := h.pathIDs(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Revoke(c.Request.Context(), clientID, keyID); err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Info("API key revoked via handler", zap.String("id", keyID.String()))
	c.JSON(http.StatusOK, gin.H{"message": "API key revoked"})
}

func (h *APIKeyHandler) Delete(c *gin.Context) {
	clientID, keyID, err := h.pathIDs(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), clientID, keyID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIKeyHandler) pathIDs(c *gin.Context) (clientID, keyID uuid.UUID, err error) {
	clientID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: invalid client id format", ierr.ErrValidation)
	}
	keyID, err = uuid.Parse(c.Param("keyID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: invalid api key id format", ierr.ErrValidation)
	}
	return clientID, keyID, nil
}
