package metrics

import (
	"math"

	"routeeob/internal/depot"
	"routeeob/internal/model"
)

// ColMetric 透视表的指标名列
const ColMetric = "Metric"

// Pivot 以仓库目录为左表做关联，缺失仓库补零，再转置为「指标 × 仓库」
// 列顺序固定为目录顺序，列名为仓库展示名；目录外的代码返回 UnknownDepotError。
func Pivot(agg *model.Table, c *depot.Catalog) (*model.Table, error) {
	if !agg.Has(ColDepot) {
		return nil, &model.MissingColumnError{Columns: []string{ColDepot}}
	}

	metricCols := make([]string, 0, len(agg.Columns)-1)
	for _, col := range agg.Columns {
		if col != ColDepot {
			metricCols = append(metricCols, col)
		}
	}

	byCode := make(map[string]int, agg.Len())
	var unknown []string
	for r := range agg.Rows {
		code := agg.Get(r, ColDepot).String()
		if !c.Contains(code) {
			unknown = append(unknown, code)
			continue
		}
		byCode[code] = r
	}
	if len(unknown) > 0 {
		return nil, &model.UnknownDepotError{Codes: unknown}
	}

	codes := c.Codes()
	header := make([]string, 0, len(codes)+1)
	header = append(header, ColMetric)
	for _, code := range codes {
		name, err := c.Name(code)
		if err != nil {
			return nil, err
		}
		header = append(header, name)
	}

	out, err := model.NewTable(header...)
	if err != nil {
		return nil, err
	}
	for _, metric := range metricCols {
		values := make([]model.Value, 0, len(header))
		values = append(values, model.Text(metric))
		for _, code := range codes {
			r, ok := byCode[code]
			if !ok {
				values = append(values, model.Number(0))
				continue
			}
			v := agg.Get(r, metric)
			if !v.IsNumber() {
				v = model.Number(0)
			}
			values = append(values, v)
		}
		out.Append(values...)
	}
	return out, nil
}

// IntegerizeRow 把指定指标行的数值截断为整数（Delivery Cases 需要按整数输出）
func IntegerizeRow(t *model.Table, metric string) *model.Table {
	out := t.Clone()
	for r := range out.Rows {
		if out.Get(r, ColMetric).String() != metric {
			continue
		}
		for c := range out.Rows[r] {
			if f, ok := out.Rows[r][c].Float(); ok {
				out.Rows[r][c] = model.Number(math.Trunc(f))
			}
		}
	}
	return out
}
