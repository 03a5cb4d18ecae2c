package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"routeeob/internal/model"
)

// 汇总表列名
const (
	ColDepot         = "Depot"
	ColDeliveryCases = "Delivery Cases"
	ColRoutes        = "Routes"
	ColDeliveryHours = "Delivery Hours"
	ColOnTime        = "On-time %"
)

// MetricColumns 汇总指标列，顺序即透视后的行顺序
var MetricColumns = []string{ColDeliveryCases, ColRoutes, ColDeliveryHours, ColOnTime}

// Schema 输入列名
type Schema struct {
	Depot  string
	Cases  string
	Time   string
	OnTime string
}

// DefaultSchema qryRouteSummary 的标准列名
func DefaultSchema() Schema {
	return Schema{
		Depot:  "Depot",
		Cases:  "DeliveryCases",
		Time:   "TotalTime",
		OnTime: "OnTimePct",
	}
}

type group struct {
	code        string
	cases       float64
	routes      int64
	hours       float64
	onTimeSum   float64
	onTimeCount int
}

// Aggregate 按仓库代码分组汇总
//
//	Delivery Cases = sum(cases)
//	Routes         = 行数
//	Delivery Hours = sum(time) 向零截断
//	On-time %      = round(mean(onTime) * 100)，四舍五入（远离零）
//
// 输出行按仓库首次出现的顺序排列；空仓库代码的行不参与分组。
func Aggregate(t *model.Table, s Schema) (*model.Table, error) {
	if !t.Has(s.Depot) {
		return nil, &model.MissingColumnError{Columns: []string{s.Depot}}
	}
	if missing := t.Missing(s.Cases, s.Time, s.OnTime); len(missing) > 0 {
		return nil, &model.MissingColumnError{Columns: missing}
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for r := range t.Rows {
		code := depotCode(t.Get(r, s.Depot))
		if code == "" {
			continue
		}

		cases, _, err := numeric(t, r, s.Cases)
		if err != nil {
			return nil, err
		}
		hours, _, err := numeric(t, r, s.Time)
		if err != nil {
			return nil, err
		}
		onTime, hasOnTime, err := numeric(t, r, s.OnTime)
		if err != nil {
			return nil, err
		}

		g, ok := groups[code]
		if !ok {
			g = &group{code: code}
			groups[code] = g
			order = append(order, code)
		}
		g.cases += cases
		g.routes++
		g.hours += hours
		if hasOnTime {
			g.onTimeSum += onTime
			g.onTimeCount++
		}
	}

	out := model.MustTable(append([]string{ColDepot}, MetricColumns...)...)
	for _, code := range order {
		g := groups[code]
		out.Append(
			model.Text(g.code),
			model.Number(g.cases),
			model.Int(g.routes),
			model.Number(math.Trunc(g.hours)),
			model.Number(onTimePercent(g)),
		)
	}
	return out, nil
}

func onTimePercent(g *group) float64 {
	if g.onTimeCount == 0 {
		return 0
	}
	return math.Round(g.onTimeSum / float64(g.onTimeCount) * 100)
}

// depotCode 仓库代码：文本去空格，数值按十进制原样输出（不用科学计数法）
func depotCode(v model.Value) string {
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.TrimSpace(v.String())
}

// numeric 读取数值单元格；空单元格返回 (0, false, nil)，文本返回 ParseError
func numeric(t *model.Table, r int, col string) (float64, bool, error) {
	v := t.Get(r, col)
	if v.IsEmpty() {
		return 0, false, nil
	}
	f, ok := v.Float()
	if !ok {
		return 0, false, &model.ParseError{
			Column: col,
			Row:    r + 1,
			Err:    fmt.Errorf("expected a number, got %q", v.String()),
		}
	}
	return f, true, nil
}
