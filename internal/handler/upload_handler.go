package handler

import (
	"fmt"
	"net/http"
	"time"

	"venuely/internal/middleware"
	"venuely/pkg/attachment"

	"github.com/gin-gonic/gin"
)

// UploadHandler stores the borrower's permit document and returns the
// reference the submission request carries. The engine never looks inside
// the document.
type UploadHandler struct {
	store attachment.Store
}

func NewUploadHandler(store attachment.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload handles POST /uploads/document (multipart field "file").
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > attachment.MaxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document must be 5 MB or smaller"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !attachment.Allowed(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document must be PDF or Word"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()
	publicID := fmt.Sprintf("doc_%d_%d", middleware.GetUserID(c), time.Now().UnixNano())
	url, err := h.store.Upload(c.Request.Context(), f, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
