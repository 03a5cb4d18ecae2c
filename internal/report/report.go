package report

import (
	"fmt"
	"math"
	"time"

	"routeeob/internal/depot"
	"routeeob/internal/exporter"
	"routeeob/internal/metrics"
	"routeeob/internal/model"
	"routeeob/internal/weights"
)

// Kind 报表类型
type Kind string

const (
	KindDeliveryMetrics Kind = "delivery_metrics"
	KindTrailerWeights  Kind = "trailer_weights"
)

// Summary 配送指标汇总
type Summary struct {
	TotalRoutes   int64   `json:"totalRoutes"`
	TotalCases    int64   `json:"totalCases"`
	AverageOnTime float64 `json:"averageOnTime"`
	TotalHours    float64 `json:"totalHours"`
}

// DeliveryReport 仓库配送指标（透视表 + 汇总）
type DeliveryReport struct {
	Aggregated *model.Table `json:"-"`
	Pivoted    *model.Table `json:"table"`
	Summary    Summary      `json:"summary"`
}

// WeightReport 路线重量报表
type WeightReport struct {
	Routes *model.Table   `json:"table"`
	Layout weights.Layout `json:"-"`
}

// Builder 报表构建器，目录与列名均由调用方注入
type Builder struct {
	Catalog *depot.Catalog
	Schema  metrics.Schema
}

// NewBuilder 创建构建器；catalog 为 nil 时使用内置目录
func NewBuilder(catalog *depot.Catalog, schema metrics.Schema) *Builder {
	if catalog == nil {
		catalog = depot.Default()
	}
	return &Builder{Catalog: catalog, Schema: schema}
}

// DeliveryMetrics 分组汇总 -> 透视 -> Delivery Cases 取整
func (b *Builder) DeliveryMetrics(t *model.Table, progress ProgressFunc) (*DeliveryReport, error) {
	reportProgress(progress, 10, "aggregate")
	agg, err := metrics.Aggregate(t, b.Schema)
	if err != nil {
		return nil, err
	}

	reportProgress(progress, 60, "pivot")
	pv, err := metrics.Pivot(agg, b.Catalog)
	if err != nil {
		return nil, err
	}
	pv = metrics.IntegerizeRow(pv, metrics.ColDeliveryCases)

	reportProgress(progress, 100, "done")
	return &DeliveryReport{
		Aggregated: agg,
		Pivoted:    pv,
		Summary:    summarize(agg),
	}, nil
}

// TrailerWeights 路线重量：选列排序 + 横向布局
func (b *Builder) TrailerWeights(t *model.Table, progress ProgressFunc) (*WeightReport, error) {
	reportProgress(progress, 10, "extract")
	routes, err := weights.Extract(t)
	if err != nil {
		return nil, err
	}

	reportProgress(progress, 60, "layout")
	layout := weights.SideBySide(routes)

	reportProgress(progress, 100, "done")
	return &WeightReport{Routes: routes, Layout: layout}, nil
}

func summarize(agg *model.Table) Summary {
	var s Summary
	var routeSum, caseSum, onTimeSum float64
	for r := range agg.Rows {
		routes, _ := agg.Get(r, metrics.ColRoutes).Float()
		cases, _ := agg.Get(r, metrics.ColDeliveryCases).Float()
		hours, _ := agg.Get(r, metrics.ColDeliveryHours).Float()
		onTime, _ := agg.Get(r, metrics.ColOnTime).Float()

		routeSum += routes
		caseSum += cases
		s.TotalHours += hours
		onTimeSum += onTime
	}
	// 先求和再取整
	s.TotalRoutes = int64(routeSum)
	s.TotalCases = int64(caseSum)
	if n := agg.Len(); n > 0 {
		s.AverageOnTime = math.Round(onTimeSum / float64(n))
	}
	return s
}

// Export 导出配送指标透视表
func (r *DeliveryReport) Export(format string) ([]byte, string, error) {
	return exporter.Export(r.Pivoted, format)
}

// Export 导出路线重量；sideBySide 为 true 时使用横向打印布局
func (r *WeightReport) Export(format string, sideBySide bool) ([]byte, string, error) {
	if sideBySide {
		return exporter.ExportLayout(r.Layout, format)
	}
	return exporter.Export(r.Routes, format)
}

// FileName 下载文件名：umos_MM_DD_YYYY.ext / trailer_weights_MM_DD_YYYY.ext
func FileName(kind Kind, format string, now time.Time) (string, error) {
	f, err := exporter.ParseFormat(format)
	if err != nil {
		return "", err
	}
	ext, _ := f.Extension()

	prefix := "umos"
	if kind == KindTrailerWeights {
		prefix = "trailer_weights"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("01_02_2006"), ext), nil
}
