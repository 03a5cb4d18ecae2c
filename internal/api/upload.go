package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routeeob/internal/loader"
	"routeeob/internal/model"
)

// UploadResponse 上传结果
type UploadResponse struct {
	UploadID string   `json:"uploadId"`
	FileName string   `json:"fileName"`
	Rows     int      `json:"rows"`
	Columns  []string `json:"columns"`
	Message  string   `json:"message"`
}

// Upload 上传 qryRouteSummary.xlsx（multipart 字段 file）
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	if h.policy.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.policy.MaxBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.ObserveUpload(false, 0)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("File is too large (limit %s)", humanize.IBytes(uint64(tooLarge.Limit))),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded (multipart field \"file\")"})
		return
	}

	name := filepath.Base(fileHeader.Filename)
	if h.policy.EnforceFilename && name != h.policy.RequiredFilename {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Please upload a file named '%s'", h.policy.RequiredFilename),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.abortWithError(c, &model.ParseError{Err: err})
		return
	}
	defer file.Close()

	var (
		table  *model.Table
		status loader.Status
	)
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		table, status = loader.LoadCSV(file)
	} else {
		table, status = loader.Load(file)
	}

	if !status.OK {
		h.metrics.ObserveUpload(false, 0)
		h.logger.Info("upload rejected",
			zap.String("file", name),
			zap.String("size", humanize.Bytes(uint64(fileHeader.Size))),
			zap.String("reason", status.Message),
		)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": status.Message})
		return
	}

	h.downloads.clear()
	u := h.session.put(name, fileHeader.Size, table, h.now())
	h.metrics.ObserveUpload(true, table.Len())
	h.logger.Info("upload accepted",
		zap.String("upload_id", u.ID),
		zap.String("file", name),
		zap.String("size", humanize.Bytes(uint64(fileHeader.Size))),
		zap.Int("rows", table.Len()),
	)

	c.JSON(http.StatusOK, UploadResponse{
		UploadID: u.ID,
		FileName: name,
		Rows:     table.Len(),
		Columns:  table.Columns,
		Message:  fmt.Sprintf("File uploaded successfully: %s", name),
	})
}

// ClearUpload 清除当前上传
// DELETE /api/upload
func (h *Handler) ClearUpload(c *gin.Context) {
	h.session.clear()
	h.downloads.clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
