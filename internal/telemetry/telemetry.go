package telemetry

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"routeeob/internal/model"
)

const namespace = "routeeob"

// Metrics 上传/导出相关指标
type Metrics struct {
	registry *prometheus.Registry

	uploads  *prometheus.CounterVec
	exports  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     prometheus.Gauge
}

// New 创建独立 registry 的指标集合
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploaded spreadsheets by result.",
		}, []string{"result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Generated downloads by report and format.",
		}, []string{"report", "format"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_errors_total",
			Help:      "Pipeline failures by report and error kind.",
		}, []string{"report", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent building a report.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"report"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_upload_rows",
			Help:      "Data rows in the current upload.",
		}),
	}
	m.registry.MustRegister(
		m.uploads, m.exports, m.failures, m.duration, m.rows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 用于测试读取
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveUpload 记录一次上传
func (m *Metrics) ObserveUpload(ok bool, rows int) {
	if m == nil {
		return
	}
	if !ok {
		m.uploads.WithLabelValues("error").Inc()
		return
	}
	m.uploads.WithLabelValues("ok").Inc()
	m.rows.Set(float64(rows))
}

// ObserveExport 记录一次下载
func (m *Metrics) ObserveExport(report, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(report, format).Inc()
}

// ObservePipeline 记录报表构建耗时与失败类型
func (m *Metrics) ObservePipeline(report string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(report, ErrorKind(err)).Inc()
	}
}

// ErrorKind 错误分类，用作指标标签
func ErrorKind(err error) string {
	var (
		empty   *model.EmptyFileError
		parse   *model.ParseError
		missing *model.MissingColumnError
		unknown *model.UnknownDepotError
		format  *model.UnsupportedFormatError
		fatal   *model.FatalConfigError
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &empty):
		return "empty_file"
	case errors.As(err, &parse):
		return "parse"
	case errors.As(err, &missing):
		return "missing_column"
	case errors.As(err, &unknown):
		return "unknown_depot"
	case errors.As(err, &format):
		return "unsupported_format"
	case errors.As(err, &fatal):
		return "fatal_config"
	default:
		return "internal"
	}
}
