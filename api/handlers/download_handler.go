package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/vidfetch-go/internal/app"
	"github.com/yourusername/vidfetch-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadHandler handles video info and download HTTP requests
type DownloadHandler struct {
	service *app.DownloadService
	logger  *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(service *app.DownloadService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		service: service,
		logger:  logger,
	}
}

// VideoInfoRequest represents a request for video metadata
type VideoInfoRequest struct {
	URL string `json:"url" binding:"required"`
}

// DownloadRequest represents a request to download a video
type DownloadRequest struct {
	URL     string `json:"url" binding:"required"`
	Quality string `json:"quality"` // e.g. "720p-mp4", "1080p-mp3"
}

// DownloadResponse is returned for a completed download
type DownloadResponse struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	DownloadURL string `json:"downloadUrl"`
}

// VideoInfo handles POST /api/v1/video-info
func (h *DownloadHandler) VideoInfo(c *gin.Context) {
	var req VideoInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.service.VideoInfo(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

// Download handles POST /api/v1/download
func (h *DownloadHandler) Download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.Download(c.Request.Context(), req.URL, req.Quality)
	if err != nil {
		if app.IsClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Download failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, DownloadResponse{
		ID:          record.ID,
		File:        record.FileName,
		DownloadURL: app.DownloadURL(record),
	})
}

// DownloadFile handles GET /api/v1/download-file/:id/:file. The file and its
// folder are removed once sent in full; a partial or aborted transfer keeps
// them for another attempt.
func (h *DownloadHandler) DownloadFile(c *gin.Context) {
	id := c.Param("id")
	name := c.Param("file")

	path, err := h.service.FilePath(id, name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.FileAttachment(path, name)

	if c.Writer.Status() != http.StatusOK || c.Request.Context().Err() != nil {
		h.logger.Warn("Download not fully delivered, keeping file",
			zap.String("id", id),
			zap.Int("status", c.Writer.Status()),
			zap.Error(c.Request.Context().Err()))
		return
	}

	if err := h.service.Release(id); err != nil {
		h.logger.Warn("Failed to release delivered download", zap.String("id", id), zap.Error(err))
	}
}

// ListDownloads handles GET /api/v1/downloads
func (h *DownloadHandler) ListDownloads(c *gin.Context) {
	records, err := h.service.List(domain.RecordStatus(c.Query("status")))
	if err != nil {
		h.logger.Error("Failed to list downloads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if records == nil {
		records = []*domain.DownloadRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// GetStats handles GET /api/v1/downloads/stats
func (h *DownloadHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
