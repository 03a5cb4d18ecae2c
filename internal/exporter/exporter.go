package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"routeeob/internal/model"
	"routeeob/internal/weights"
)

// SheetName 导出工作表名
const SheetName = "Sheet1"

// 横向布局中右块相对原点的偏移：下移一行、右移四列（即右块表头位于 E2）
const (
	SideBySideRowOffset = 1
	SideBySideColOffset = 4
)

// Export 导出表格，返回文件内容与 MIME 类型
func Export(t *model.Table, format string) ([]byte, string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	mime, _ := f.MIMEType()

	var data []byte
	switch f {
	case FormatCSV:
		data, err = writeCSV(t.Columns, t.Records())
	case FormatExcel:
		data, err = writeExcel(func(wb *excelize.File, style int) error {
			return writeBlock(wb, 1, 1, t, style)
		})
	}
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// ExportLayout 导出横向布局：CSV 为左块 + 空列 + 右块，Excel 右块从 (行+1, 列+4) 开始写
func ExportLayout(l weights.Layout, format string) ([]byte, string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	mime, _ := f.MIMEType()

	var data []byte
	switch f {
	case FormatCSV:
		data, err = writeCSV(l.Header(), l.Records())
	case FormatExcel:
		data, err = writeExcel(func(wb *excelize.File, style int) error {
			if err := writeBlock(wb, 1, 1, l.Left, style); err != nil {
				return err
			}
			return writeBlock(wb, 1+SideBySideColOffset, 1+SideBySideRowOffset, l.Right, style)
		})
	}
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

func writeCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv records: %w", err)
	}
	return buf.Bytes(), nil
}

func writeExcel(fill func(wb *excelize.File, headerStyle int) error) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := fill(wb, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBlock 在 (col,row) 处写入表头与数据，坐标从 1 开始
func writeBlock(wb *excelize.File, col, row int, t *model.Table, headerStyle int) error {
	for j, h := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+j, row)
		if err != nil {
			return err
		}
		if err := wb.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
		if err := wb.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, r := range t.Rows {
		for j := range t.Columns {
			if j >= len(r) || r[j].IsEmpty() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+j, row+1+i)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(SheetName, cell, cellValue(r[j])); err != nil {
				return err
			}
		}
	}
	return nil
}

func cellValue(v model.Value) interface{} {
	if f, ok := v.Float(); ok {
		if v.IsInteger() && f >= -1<<53 && f <= 1<<53 {
			return int64(f)
		}
		return f
	}
	return v.String()
}
