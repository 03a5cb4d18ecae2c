package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"routeeob/internal/depot"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	HasUpload  bool     `json:"hasUpload"`
	UploadID   string   `json:"uploadId,omitempty"`
	FileName   string   `json:"fileName,omitempty"`
	Rows       int      `json:"rows"`
	Columns    []string `json:"columns,omitempty"`
	UploadedAt string   `json:"uploadedAt,omitempty"`
}

// GetStatus 获取当前上传状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	u, ok := h.session.get()
	if !ok {
		c.JSON(http.StatusOK, StatusResponse{HasUpload: false})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		HasUpload:  true,
		UploadID:   u.ID,
		FileName:   u.FileName,
		Rows:       u.Table.Len(),
		Columns:    u.Table.Columns,
		UploadedAt: u.UploadedAt.Format(time.RFC3339),
	})
}

// ListDepots 仓库目录（报表列顺序）
// GET /api/depots
func (h *Handler) ListDepots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"depots": h.catalogEntries()})
}

func (h *Handler) catalogEntries() []depot.Entry {
	return h.builder.Catalog.Entries()
}
