package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/seolytics/seo-api/internal/domain/seo"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/handler/middleware"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/seolytics/seo-api/internal/service"
	"go.uber.org/zap"
)

type SEOHandler struct {
	service *service.SEOService
	logger  *zap.Logger
}

func NewSEOHandler(service *service.SEOService, logger *zap.Logger) *SEOHandler {
	return &SEOHandler{
		service: service,
		logger:  logger.Named("SEOHandler"),
	}
}

func domainToResponse(d *seo.Domain) dto.DomainResponse {
	return dto.DomainResponse{
		ID:            d.ID,
		URL:           d.URL,
		Name:          d.Name,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		LastCrawledAt: d.LastCrawledAt,
	}
}

func (h *SEOHandler) CreateDomain(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	var req dto.CreateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	created, err := h.service.CreateDomain(c.Request.Context(), principal.Client.ID, &seo.Domain{
		URL:  req.URL,
		Name: req.Name,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, domainToResponse(created))
}

func (h *SEOHandler) ListDomains(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	limit, offset := pagination(c)

	domains, err := h.service.ListDomains(c.Request.Context(), principal.Client.ID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]dto.DomainResponse, len(domains))
	for i, d := range domains {
		out[i] = domainToResponse(d)
	}
	c.JSON(http.StatusOK, out)
}

func (h *SEOHandler) GetDomain(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	d, err := h.service.GetDomain(c.Request.Context(), principal.Key, domainID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, domainToResponse(d))
}

func (h *SEOHandler) UpdateDomain(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.UpdateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	patch := seo.DomainUpdate{URL: req.URL, Name: req.Name, IsActive: req.IsActive}
	updated, err := h.service.UpdateDomain(c.Request.Context(), principal.Key, domainID, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, domainToResponse(updated))
}

func (h *SEOHandler) DeleteDomain(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteDomain(c.Request.Context(), principal.Key, domainID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SEOHandler) CreateKeyword(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.CreateKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	id, err := h.service.CreateKeyword(c.Request.Context(), principal.Key, &seo.Keyword{
		DomainID:          domainID,
		Keyword:           req.Keyword,
		SearchVolume:      req.SearchVolume,
		KeywordDifficulty: req.KeywordDifficulty,
		CPC:               req.CPC,
		Competition:       req.Competition,
		Source:            req.Source,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *SEOHandler) ListKeywords(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	limit, offset := pagination(c)

	keywords, err := h.service.ListKeywords(c.Request.Context(), principal.Key, domainID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]dto.KeywordResponse, len(keywords))
	for i, k := range keywords {
		out[i] = dto.KeywordResponse{
			ID:                k.ID,
			DomainID:          k.DomainID,
			Keyword:           k.Keyword,
			SearchVolume:      k.SearchVolume,
			KeywordDifficulty: k.KeywordDifficulty,
			CPC:               k.CPC,
			Competition:       k.Competition,
			Source:            k.Source,
			CreatedAt:         k.CreatedAt,
			LastUpdated:       k.LastUpdated,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *SEOHandler) CreateRanking(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.CreateRankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	id, err := h.service.CreateRanking(c.Request.Context(), principal.Key, &seo.Ranking{
		DomainID:         domainID,
		KeywordID:        req.KeywordID,
		Keyword:          req.Keyword,
		Position:         req.Position,
		PreviousPosition: req.PreviousPosition,
		URL:              req.URL,
		EstimatedTraffic: req.EstimatedTraffic,
		VisibilityScore:  req.VisibilityScore,
		SearchEngine:     req.SearchEngine,
		Location:         req.Location,
		Device:           req.Device,
		Source:           req.Source,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *SEOHandler) ListRankings(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	limit, offset := pagination(c)

	rankings, err := h.service.ListRankings(c.Request.Context(), principal.Key, domainID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]dto.RankingResponse, len(rankings))
	for i, r := range rankings {
		out[i] = dto.RankingResponse{
			ID:               r.ID,
			DomainID:         r.DomainID,
			KeywordID:        r.KeywordID,
			Keyword:          r.Keyword,
			Position:         r.Position,
			PreviousPosition: r.PreviousPosition,
			URL:              r.URL,
			EstimatedTraffic: r.EstimatedTraffic,
			VisibilityScore:  r.VisibilityScore,
			SearchEngine:     r.SearchEngine,
			Location:         r.Location,
			Device:           r.Device,
			Source:           r.Source,
			CheckedAt:        r.CheckedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *SEOHandler) CreateBacklink(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.CreateBacklinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	id, err := h.service.CreateBacklink(c.Request.Context(), principal.Key, &seo.Backlink{
		DomainID:        domainID,
		SourceURL:       req.SourceURL,
		TargetURL:       req.TargetURL,
		ReferringDomain: req.ReferringDomain,
		AuthorityScore:  req.AuthorityScore,
		AnchorText:      req.AnchorText,
		LinkType:        req.LinkType,
		FirstSeen:       req.FirstSeen,
		LastSeen:        req.LastSeen,
		Source:          req.Source,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *SEOHandler) ListBacklinks(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	domainID, err := pathDomainID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	limit, offset := pagination(c)

	backlinks, err := h.service.ListBacklinks(c.Request.Context(), principal.Key, domainID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]dto.BacklinkResponse, len(backlinks))
	for i, b := range backlinks {
		out[i] = dto.BacklinkResponse{
			ID:              b.ID,
			DomainID:        b.DomainID,
			SourceURL:       b.SourceURL,
			TargetURL:       b.TargetURL,
			ReferringDomain: b.ReferringDomain,
			AuthorityScore:  b.AuthorityScore,
			AnchorText:      b.AnchorText,
			LinkType:        b.LinkType,
			IsActive:        b.IsActive,
			FirstSeen:       b.FirstSeen,
			LastSeen:        b.LastSeen,
			Source:          b.Source,
			CreatedAt:       b.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

func pathDomainID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("domainID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid domain id", ierr.ErrValidation)
	}
	return id, nil
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
