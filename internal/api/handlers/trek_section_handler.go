package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umorjyoti/trip-sub006/internal/models"
	"github.com/umorjyoti/trip-sub006/internal/services"
)

// TrekSectionHandler manages homepage sections.
type TrekSectionHandler struct {
	sections services.ITrekSectionService
}

// NewTrekSectionHandler creates a new TrekSectionHandler.
func NewTrekSectionHandler(sections services.ITrekSectionService) *TrekSectionHandler {
	return &TrekSectionHandler{sections: sections}
}

// List handles GET /api/trek-sections
func (h *TrekSectionHandler) List(c *gin.Context) {
	sections, err := h.sections.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, sections)
}

// ListActive handles GET /api/trek-sections/active
func (h *TrekSectionHandler) ListActive(c *gin.Context) {
	sections, err := h.sections.ListActivePopulated(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, sections)
}

// GetByID handles GET /api/trek-sections/:id
func (h *TrekSectionHandler) GetByID(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	section, err := h.sections.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, section)
}

// Create handles POST /api/trek-sections
func (h *TrekSectionHandler) Create(c *gin.Context) {
	var in models.SectionInput
	if !bindJSON(c, &in) {
		return
	}
	section, err := in.ToSection()
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.sections.Create(c.Request.Context(), section)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

// Update handles PUT /api/trek-sections/:id
func (h *TrekSectionHandler) Update(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	var upd models.SectionUpdate
	if !bindJSON(c, &upd) {
		return
	}
	section, err := h.sections.Update(c.Request.Context(), id, &upd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, section)
}

// Delete handles DELETE /api/trek-sections/:id
func (h *TrekSectionHandler) Delete(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.sections.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Trek section deleted"})
}
