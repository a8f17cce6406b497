package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domclient "github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/seolytics/seo-api/internal/service"
	"go.uber.org/zap"
)

type ClientHandler struct {
	service *service.ClientService
	logger  *zap.Logger
}

func NewClientHandler(service *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		logger:  logger.Named("ClientHandler"),
	}
}

func clientToResponse(c *domclient.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Company:            c.Company,
		Email:              c.Email,
		IsActive:           c.IsActive,
		MaxAPIKeys:         c.MaxAPIKeys,
		RateLimitPerMinute: c.RateLimitPerMinute,
		RateLimitPerDay:    c.RateLimitPerDay,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind create client request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, clientToResponse(created))
}

func (h *ClientHandler) List(c *gin.Context) {
	params := domclient.ListParams{}
	if v := c.Query("is_active"); v != "" {
		isActive, err := strconv.ParseBool(v)
		if err != nil {
			_ = c.Error(fmt.Errorf("%w: invalid is_active filter", ierr.ErrValidation))
			return
		}
		params.IsActive = &isActive
	}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	params.Offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))

	clients, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]dto.ClientResponse, len(clients))
	for i, cl := range clients {
		out[i] = clientToResponse(cl)
	}
	c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid client id format", ierr.ErrValidation))
		return
	}

	cl, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clientToResponse(cl))
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid client id format", ierr.ErrValidation))
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind update client request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clientToResponse(updated))
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid client id format", ierr.ErrValidation))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
