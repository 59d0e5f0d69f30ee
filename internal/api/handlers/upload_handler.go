package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/services"
)

// UploadFormField is the multipart field holding the file.
const UploadFormField = "image"

// UploadHandler bridges admin uploads to object storage.
type UploadHandler struct {
	uploads  services.IUploadService
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler. maxBytes caps the bytes read from a
// single file before the service applies its own limit.
func NewUploadHandler(uploads services.IUploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploads: uploads, maxBytes: maxBytes}
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		respondError(c, apperr.Invalid(UploadFormField, "a file is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	// one byte over the limit is enough for the service to reject it
	var r io.Reader = f
	if h.maxBytes > 0 {
		r = io.LimitReader(f, h.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		respondError(c, err)
		return
	}

	obj, err := h.uploads.Upload(c.Request.Context(), services.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Folder:      c.PostForm("folder"),
		Data:        data,
		Size:        header.Size,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": obj.URL, "key": obj.Key, "data": obj})
}

// Delete handles DELETE /api/upload/*key and DELETE /api/upload?url=...
func (h *UploadHandler) Delete(c *gin.Context) {
	target := strings.TrimPrefix(c.Param("key"), "/")
	if target == "" {
		target = c.Query("url")
	}
	report, err := h.uploads.Delete(c.Request.Context(), target)
	if err != nil {
		if report != nil {
			// object is gone, only the trek cleanup failed
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "File deleted but trek references could not be cleaned up",
				"code":    CodeInternal,
				"data":    report,
			})
			return
		}
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, report)
}
