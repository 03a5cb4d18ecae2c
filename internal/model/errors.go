package model

import (
	"fmt"
	"strings"
)

// EmptyFileError 上传文件没有任何数据行
type EmptyFileError struct{}

func (e *EmptyFileError) Error() string {
	return "The uploaded file is empty."
}

// ParseError 文件或单元格无法解析
type ParseError struct {
	Column string // 可选：出错的列
	Row    int    // 可选：出错的数据行（从 1 开始，不含表头）
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("Error reading file: column %q row %d: %v", e.Column, e.Row, e.Err)
	}
	return fmt.Sprintf("Error reading file: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingColumnError 缺少必需列，Columns 列出全部缺失项
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Columns) == 1 {
		return fmt.Sprintf("%s column not found in the dataset", e.Columns[0])
	}
	return fmt.Sprintf("Missing required columns: %s", strings.Join(e.Columns, ", "))
}

// UnknownDepotError 数据中出现目录之外的仓库代码
type UnknownDepotError struct {
	Codes []string
}

func (e *UnknownDepotError) Error() string {
	return fmt.Sprintf("Unknown depot codes: %s", strings.Join(e.Codes, ", "))
}

// UnsupportedFormatError 导出格式不支持
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported file format: %q", e.Format)
}

// FatalConfigError 参考数据（仓库目录）损坏，正常情况下不可达
type FatalConfigError struct {
	Reason string
}

func (e *FatalConfigError) Error() string {
	return "depot catalog: " + e.Reason
}
