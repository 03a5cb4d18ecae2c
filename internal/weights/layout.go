package weights

import "routeeob/internal/model"

// Layout 横向打印布局：左右两块等长，右块不足时补空行
type Layout struct {
	Left  *model.Table
	Right *model.Table
	// Count 原始行数（不含补齐的空行）
	Count int
}

// SideBySide 在 ceil(n/2) 处切分
func SideBySide(t *model.Table) Layout {
	n := t.Len()
	half := (n + 1) / 2

	left := model.MustTable(t.Columns...)
	right := model.MustTable(t.Columns...)
	for i, row := range t.Rows {
		dst := left
		if i >= half {
			dst = right
		}
		dst.Append(row...)
	}
	for right.Len() < left.Len() {
		right.Append()
	}
	return Layout{Left: left, Right: right, Count: n}
}

// Rows 每块的行数（含补齐行）
func (l Layout) Rows() int { return l.Left.Len() }

// Header 合并后的表头：左块列 + 空白间隔列 + 右块列
func (l Layout) Header() []string {
	h := make([]string, 0, len(l.Left.Columns)+len(l.Right.Columns)+1)
	h = append(h, l.Left.Columns...)
	h = append(h, "")
	h = append(h, l.Right.Columns...)
	return h
}

// Records 合并后的数据行（字符串），与 Header 对齐
func (l Layout) Records() [][]string {
	left, right := l.Left.Records(), l.Right.Records()
	out := make([][]string, len(left))
	for i := range left {
		rec := make([]string, 0, len(l.Left.Columns)+len(l.Right.Columns)+1)
		rec = append(rec, left[i]...)
		rec = append(rec, "")
		rec = append(rec, right[i]...)
		out[i] = rec
	}
	return out
}
