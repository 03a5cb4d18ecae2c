package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routeeob/internal/report"
	"routeeob/internal/telemetry"
)

// UploadPolicy 上传文件约束
type UploadPolicy struct {
	RequiredFilename string
	EnforceFilename  bool
	MaxBytes         int64
}

// Handler API 处理器
type Handler struct {
	builder   *report.Builder
	policy    UploadPolicy
	logger    *zap.Logger
	metrics   *telemetry.Metrics
	session   *session
	downloads *downloadStore
	now       func() time.Time
}

// Option 处理器可选项
type Option func(*Handler)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithMetrics 设置指标
func WithMetrics(m *telemetry.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithClock 设置时钟（用于生成下载文件名）
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler 创建 API 处理器
func NewHandler(builder *report.Builder, policy UploadPolicy, opts ...Option) *Handler {
	h := &Handler{
		builder:   builder,
		policy:    policy,
		logger:    zap.NewNop(),
		session:   newSession(),
		downloads: newDownloadStore(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/depots", h.ListDepots)

	// 上传（单槽位，新上传覆盖旧数据）
	router.POST("/upload", h.Upload)
	router.DELETE("/upload", h.ClearUpload)

	// 报表
	router.GET("/delivery-metrics", h.GetDeliveryMetrics)
	router.GET("/delivery-metrics/download", h.DownloadDeliveryMetrics)
	router.GET("/trailer-weights", h.GetTrailerWeights)
	router.GET("/trailer-weights/download", h.DownloadTrailerWeights)

	// 两步下载：先生成，再凭 token 下载
	router.POST("/exports", h.CreateExport)
	router.GET("/exports/:token", h.DownloadExport)
}
