package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/models"
	"github.com/umorjyoti/trip-sub006/internal/services"
)

// NotificationHandler serves the admin notification feed.
type NotificationHandler struct {
	notifications services.INotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications services.INotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// parseListQuery reads page, limit, isRead, type and priority. Absent values do not filter.
func parseListQuery(c *gin.Context) (models.NotificationFilter, int, int, error) {
	var f models.NotificationFilter
	v := &apperr.ValidationError{}

	page, limit := 1, models.DefaultPageLimit
	if raw, ok := c.GetQuery("page"); ok {
		n, err := cast.ToIntE(raw)
		if err != nil {
			v.Add("page", "must be a number")
		}
		page = n
	}
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := cast.ToIntE(raw)
		if err != nil {
			v.Add("limit", "must be a number")
		}
		limit = n
	}
	if raw := c.Query("isRead"); raw != "" {
		b, err := cast.ToBoolE(raw)
		if err != nil {
			v.Add("isRead", "must be true or false")
		}
		f.IsRead = &b
	}
	if raw := c.Query("type"); raw != "" {
		t := models.NotificationType(raw)
		if !t.Valid() {
			v.Add("type", "unknown notification type %q", raw)
		}
		f.Type = &t
	}
	if raw := c.Query("priority"); raw != "" {
		p := models.Priority(raw)
		if !p.Valid() {
			v.Add("priority", "must be low, medium or high")
		}
		f.Priority = &p
	}
	return f, page, limit, v.OrNil()
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	filter, page, limit, err := parseListQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.notifications.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"count": n})
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	n, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, n)
}

// MarkAllRead handles PUT /api/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updatedCount": n})
}

// Delete handles DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}

// DeleteAllRead handles DELETE /api/notifications/delete-read
func (h *NotificationHandler) DeleteAllRead(c *gin.Context) {
	n, err := h.notifications.DeleteAllRead(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deletedCount": n})
}
