package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routeeob/internal/report"
)

const layoutSingle = "single"

type downloadQuery struct {
	Format string `form:"format"`
	Layout string `form:"layout" binding:"omitempty,oneof=side-by-side single"`
}

type exportRequest struct {
	Report string `json:"report" binding:"required,oneof=delivery_metrics trailer_weights"`
	Format string `json:"format" binding:"required"`
	Layout string `json:"layout" binding:"omitempty,oneof=side-by-side single"`
}

type exportResponse struct {
	Token       string `json:"token"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType"`
	DownloadURL string `json:"downloadUrl"`
}

// currentTable 当前上传的表；没有上传时返回 409
func (h *Handler) currentTable(c *gin.Context) (*upload, bool) {
	u, ok := h.session.get()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No file has been uploaded yet"})
		return nil, false
	}
	return u, true
}

func (h *Handler) buildDelivery(c *gin.Context) (*report.DeliveryReport, bool) {
	u, ok := h.currentTable(c)
	if !ok {
		return nil, false
	}
	start := time.Now()
	rep, err := h.builder.DeliveryMetrics(u.Table, nil)
	h.metrics.ObservePipeline(string(report.KindDeliveryMetrics), start, err)
	if err != nil {
		h.abortWithError(c, err)
		return nil, false
	}
	return rep, true
}

func (h *Handler) buildWeights(c *gin.Context) (*report.WeightReport, bool) {
	u, ok := h.currentTable(c)
	if !ok {
		return nil, false
	}
	start := time.Now()
	rep, err := h.builder.TrailerWeights(u.Table, nil)
	h.metrics.ObservePipeline(string(report.KindTrailerWeights), start, err)
	if err != nil {
		h.abortWithError(c, err)
		return nil, false
	}
	return rep, true
}

// GetDeliveryMetrics 仓库配送指标（透视表 + 汇总）
// GET /api/delivery-metrics
func (h *Handler) GetDeliveryMetrics(c *gin.Context) {
	rep, ok := h.buildDelivery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GetTrailerWeights 路线重量（页面展示，不做左右分栏）
// GET /api/trailer-weights
func (h *Handler) GetTrailerWeights(c *gin.Context) {
	rep, ok := h.buildWeights(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"table":      rep.Routes,
		"routeCount": rep.Layout.Count,
		"printRows":  rep.Layout.Rows(),
	})
}

// DownloadDeliveryMetrics 下载配送指标
// GET /api/delivery-metrics/download?format=csv|excel
func (h *Handler) DownloadDeliveryMetrics(c *gin.Context) {
	var q downloadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, ok := h.render(c, report.KindDeliveryMetrics, formatOrDefault(q.Format), q.Layout)
	if !ok {
		return
	}
	h.send(c, item)
}

// DownloadTrailerWeights 下载路线重量，默认左右分栏
// GET /api/trailer-weights/download?format=csv|excel&layout=side-by-side|single
func (h *Handler) DownloadTrailerWeights(c *gin.Context) {
	var q downloadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, ok := h.render(c, report.KindTrailerWeights, formatOrDefault(q.Format), q.Layout)
	if !ok {
		return
	}
	h.send(c, item)
}

// CreateExport 生成下载文件并返回一次性 token
// POST /api/exports
func (h *Handler) CreateExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, ok := h.render(c, report.Kind(req.Report), req.Format, req.Layout)
	if !ok {
		return
	}

	token := h.downloads.put(item, h.now(), downloadTTL)
	c.JSON(http.StatusOK, exportResponse{
		Token:       token,
		FileName:    item.fileName,
		MimeType:    item.mimeType,
		DownloadURL: fmt.Sprintf("/api/exports/%s", token),
	})
}

// DownloadExport 凭 token 下载（一次性）
// GET /api/exports/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"), h.now())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Download link has expired"})
		return
	}
	h.send(c, item)
}

// render 构建报表并序列化；返回 false 时错误响应已写入
func (h *Handler) render(c *gin.Context, kind report.Kind, format, layout string) (exportDownload, bool) {
	fileName, err := report.FileName(kind, format, h.now())
	if err != nil {
		h.abortWithError(c, err)
		return exportDownload{}, false
	}

	var (
		data []byte
		mime string
	)
	switch kind {
	case report.KindDeliveryMetrics:
		rep, ok := h.buildDelivery(c)
		if !ok {
			return exportDownload{}, false
		}
		data, mime, err = rep.Export(format)
	case report.KindTrailerWeights:
		rep, ok := h.buildWeights(c)
		if !ok {
			return exportDownload{}, false
		}
		data, mime, err = rep.Export(format, layout != layoutSingle)
	}
	if err != nil {
		h.abortWithError(c, err)
		return exportDownload{}, false
	}

	h.metrics.ObserveExport(string(kind), format)
	h.logger.Info("export generated",
		zap.String("report", string(kind)),
		zap.String("format", format),
		zap.String("file", fileName),
		zap.Int("bytes", len(data)),
	)
	return exportDownload{data: data, mimeType: mime, fileName: fileName}, true
}

func (h *Handler) send(c *gin.Context, item exportDownload) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.fileName))
	c.Data(http.StatusOK, item.mimeType, item.data)
}

func formatOrDefault(format string) string {
	if format == "" {
		return "csv"
	}
	return format
}
