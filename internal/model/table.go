package model

import (
	"encoding/json"
	"fmt"
)

// Row 一行记录，按位置与 Table.Columns 对齐
type Row []Value

// Table 通用表结构：有序列名 + 有序行
// 每个处理阶段都返回新的 Table，不与上游共享可变数据
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable 创建空表，列名必须唯一
func NewTable(columns ...string) (*Table, error) {
	if err := checkUnique(columns); err != nil {
		return nil, err
	}
	return &Table{
		Columns: append([]string(nil), columns...),
		Rows:    []Row{},
	}, nil
}

// MustTable 创建空表，列名重复时 panic（仅用于固定列名）
func MustTable(columns ...string) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

func checkUnique(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate column name %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Index 列名对应的位置
func (t *Table) Index(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Has 是否包含列
func (t *Table) Has(name string) bool {
	_, ok := t.Index(name)
	return ok
}

// Missing 返回 names 中不存在于表中的列，保持传入顺序
func (t *Table) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Len 行数
func (t *Table) Len() int { return len(t.Rows) }

// Append 追加一行，值个数不足时以空值补齐，超出部分丢弃
func (t *Table) Append(values ...Value) {
	row := make(Row, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Get 读取第 r 行的指定列，列不存在或越界返回空值
func (t *Table) Get(r int, name string) Value {
	i, ok := t.Index(name)
	if !ok || r < 0 || r >= len(t.Rows) || i >= len(t.Rows[r]) {
		return Empty()
	}
	return t.Rows[r][i]
}

// Select 按给定列名投影出新表
func (t *Table) Select(names ...string) (*Table, error) {
	if missing := t.Missing(names...); len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}
	out, err := NewTable(names...)
	if err != nil {
		return nil, err
	}
	pos := make([]int, len(names))
	for j, n := range names {
		pos[j], _ = t.Index(n)
	}
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		nr := make(Row, len(names))
		for j, p := range pos {
			if p < len(row) {
				nr[j] = row[p]
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, nil
}

// Clone 深拷贝
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append(Row(nil), row...)
	}
	return out
}

// Equal 列名与所有单元格均相等
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for r := range t.Rows {
		if len(t.Rows[r]) != len(o.Rows[r]) {
			return false
		}
		for c := range t.Rows[r] {
			if !t.Rows[r][c].Equal(o.Rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// Records 转为字符串矩阵（不含表头）
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j := range t.Columns {
			if j < len(row) {
				rec[j] = row[j].String()
			}
		}
		out[i] = rec
	}
	return out
}

// MarshalJSON {"columns": [...], "rows": [[...], ...]}
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    []Row    `json:"rows"`
	}{
		Columns: t.Columns,
		Rows:    rows,
	})
}
