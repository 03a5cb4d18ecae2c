package exporter

import (
	"strings"

	"routeeob/internal/model"
)

// Format 导出格式
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

const (
	mimeCSV  = "text/csv"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Formats 支持的导出格式
var Formats = []Format{FormatCSV, FormatExcel}

// ParseFormat 解析格式字面量（区分大小写，只接受 csv / excel）
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatExcel:
		return Format(s), nil
	default:
		return "", &model.UnsupportedFormatError{Format: s}
	}
}

// MIMEType 格式对应的 MIME 类型
func (f Format) MIMEType() (string, error) {
	switch f {
	case FormatCSV:
		return mimeCSV, nil
	case FormatExcel:
		return mimeXLSX, nil
	default:
		return "", &model.UnsupportedFormatError{Format: string(f)}
	}
}

// Extension 文件扩展名（不含点）
func (f Format) Extension() (string, error) {
	switch f {
	case FormatCSV:
		return "csv", nil
	case FormatExcel:
		return "xlsx", nil
	default:
		return "", &model.UnsupportedFormatError{Format: string(f)}
	}
}

// FormatNames 逗号分隔的格式列表，用于提示信息
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
