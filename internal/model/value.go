package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ValueKind 单元格值类型
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindText
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "empty"
	}
}

// Value 单元格值（文本 / 数值 / 空）
type Value struct {
	kind ValueKind
	text string
	num  float64
}

// Empty 空值
func Empty() Value { return Value{} }

// Text 文本值
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number 数值
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int 整数值（以 float64 存储）
func Int(i int64) Value { return Number(float64(i)) }

// Kind 返回值类型
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty 是否为空
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// IsNumber 是否为数值
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float 返回数值；非数值返回 false
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// IsInteger 数值且无小数部分
func (v Value) IsInteger() bool {
	return v.kind == KindNumber && v.num == math.Trunc(v.num) && !math.IsInf(v.num, 0)
}

// String 单元格的文本表示，用于 CSV / 排序 / 展示
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal 值比较；数值按数值比较，不区分 int/float
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	default:
		return true
	}
}

// MarshalJSON 空值输出 null，数值输出 number，文本输出 string
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// ParseCell 将原始文本解析为单元格值：可解析为数字的转为数值，空白为空值
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Number(f)
	}
	return Text(raw)
}
