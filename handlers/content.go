package handlers

import (
	"errors"
	"net/http"

	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContentHandler manages the promotional surfaces: home banners and
// placed ads. Reads are public, writes admin-only (enforced by routing).
type ContentHandler struct {
	content repository.ContentStore
	logger  *zap.Logger
}

func NewContentHandler(content repository.ContentStore, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

func (h *ContentHandler) ListBanners(c *gin.Context) {
	banners, err := h.content.ListBanners(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list banners", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, banners)
}

type bannerRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
	Link     string `json:"link"`
	Order    int    `json:"order"`
}

func (h *ContentHandler) CreateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banner := &models.HomeBanner{ImageURL: req.ImageURL, Link: req.Link, Order: req.Order}
	if _, err := h.content.InsertBanner(c.Request.Context(), banner); err != nil {
		h.logger.Error("Failed to create banner", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *ContentHandler) DeleteBanner(c *gin.Context) {
	if err := h.content.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
			return
		}
		h.logger.Error("Failed to delete banner", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
}

func (h *ContentHandler) ListAds(c *gin.Context) {
	ads, err := h.content.ListAds(c.Request.Context(), models.AdPlacement(c.Query("placement")))
	if err != nil {
		h.logger.Error("Failed to list ads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, ads)
}

type adRequest struct {
	ImageURL  string             `json:"imageUrl" binding:"required"`
	Link      string             `json:"link"`
	Text      string             `json:"text"`
	Placement models.AdPlacement `json:"placement" binding:"required"`
	Order     int                `json:"order"`
}

func (h *ContentHandler) CreateAd(c *gin.Context) {
	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Placement {
	case models.AdHomeTop, models.AdHomeMiddle, models.AdHomeBottom:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid placement"})
		return
	}

	ad := &models.CustomAd{
		ImageURL:  req.ImageURL,
		Link:      req.Link,
		Text:      req.Text,
		Placement: req.Placement,
		Order:     req.Order,
	}
	if _, err := h.content.InsertAd(c.Request.Context(), ad); err != nil {
		h.logger.Error("Failed to create ad", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ad)
}

func (h *ContentHandler) DeleteAd(c *gin.Context) {
	if err := h.content.DeleteAd(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
			return
		}
		h.logger.Error("Failed to delete ad", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ad deleted"})
}
