package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umorjyoti/trip-sub006/internal/models"
	"github.com/umorjyoti/trip-sub006/internal/services"
)

// SettingsHandler serves the site settings singleton.
type SettingsHandler struct {
	settings services.ISettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings services.ISettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	s, err := h.settings.GetInstance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, s)
}

// UpdateSettings handles PUT /api/settings. Groups and keys missing from the body are kept.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	s, err := h.settings.Update(c.Request.Context(), &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, s)
}

// GetEnquiryBanner handles GET /api/settings/enquiry-banner
func (h *SettingsHandler) GetEnquiryBanner(c *gin.Context) {
	b, err := h.settings.GetEnquiryBanner(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, b)
}

// GetLandingPage handles GET /api/settings/landing-page
func (h *SettingsHandler) GetLandingPage(c *gin.Context) {
	h.hero(c, h.settings.GetLandingPage)
}

// GetBlogPage handles GET /api/settings/blog-page
func (h *SettingsHandler) GetBlogPage(c *gin.Context) {
	h.hero(c, h.settings.GetBlogPage)
}

// GetWeekendGetawayPage handles GET /api/settings/weekend-getaway-page
func (h *SettingsHandler) GetWeekendGetawayPage(c *gin.Context) {
	h.hero(c, h.settings.GetWeekendGetawayPage)
}

func (h *SettingsHandler) hero(c *gin.Context, get func(ctx context.Context) (*models.PageHero, error)) {
	p, err := get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}
