package weights

import (
	"sort"
	"strings"

	"routeeob/internal/model"
)

// 路线重量报表的输入列
const (
	ColRouteID     = "ROUTE_ID"
	ColDescription = "DESCRIPTION"
	ColWeight      = "DeliveryWeight"
)

// Column 输入列与展示名
type Column struct {
	Name  string
	Label string
}

// Columns 必需列，顺序即输出列顺序
var Columns = []Column{
	{Name: ColRouteID, Label: "Route ID"},
	{Name: ColDescription, Label: "Description"},
	{Name: ColWeight, Label: "Delivery Weight"},
}

// Extract 选取 ROUTE_ID / DESCRIPTION / DeliveryWeight 三列并按 ROUTE_ID 升序稳定排序
// 缺列时一次性返回所有缺失列的展示名。
func Extract(t *model.Table) (*model.Table, error) {
	var missing []string
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
		if !t.Has(c.Name) {
			missing = append(missing, c.Label)
		}
	}
	if len(missing) > 0 {
		return nil, &model.MissingColumnError{Columns: missing}
	}

	out, err := t.Select(names...)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return lessRouteID(out.Rows[i][0], out.Rows[j][0])
	})
	return out, nil
}

// lessRouteID 数值在前按数值比较，文本按字典序，空值排最后
func lessRouteID(a, b model.Value) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case 0:
		fa, _ := a.Float()
		fb, _ := b.Float()
		return fa < fb
	case 1:
		return strings.Compare(a.String(), b.String()) < 0
	default:
		return false
	}
}

func rank(v model.Value) int {
	switch v.Kind() {
	case model.KindNumber:
		return 0
	case model.KindText:
		return 1
	default:
		return 2
	}
}
