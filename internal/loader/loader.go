package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"routeeob/internal/model"
)

// Status 加载结果：失败时 Table 为 nil，Message 可直接展示给用户
type Status struct {
	OK      bool
	Message string
	Err     error
}

const successMessage = "Success"

// Load 读取 xlsx：第一个工作表，第一行为表头
func Load(r io.Reader) (*model.Table, Status) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fail(&model.ParseError{Err: err})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fail(&model.EmptyFileError{})
	}

	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fail(&model.ParseError{Err: err})
	}
	return build(rows, func(row, col int, raw string) (model.Value, error) {
		return xlsxCell(f, sheet, row, col, raw)
	})
}

// xlsxCell 按单元格类型取值：字符串单元格保持文本，只有数值类单元格解析为数字
func xlsxCell(f *excelize.File, sheet string, row, col int, raw string) (model.Value, error) {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return model.Value{}, err
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return model.Value{}, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		if strings.TrimSpace(raw) == "" {
			return model.Empty(), nil
		}
		return model.Text(raw), nil
	default:
		// 数值、布尔、日期以及未标注类型（默认数值）的单元格
		return model.ParseCell(raw), nil
	}
}

// csvCell CSV 没有单元格类型，只能按内容推断
func csvCell(_, _ int, raw string) (model.Value, error) {
	return model.ParseCell(raw), nil
}

// LoadCSV 读取 UTF-8 CSV，第一行为表头
func LoadCSV(r io.Reader) (*model.Table, Status) {
	data, err := io.ReadAll(r)
	if err != nil {
		return fail(&model.ParseError{Err: err})
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return fail(&model.ParseError{Err: err})
	}
	return build(rows, csvCell)
}

// LoadFile 按扩展名选择读取方式
func LoadFile(path string) (*model.Table, Status) {
	file, err := os.Open(path)
	if err != nil {
		return fail(&model.ParseError{Err: err})
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(file)
	case ".xlsx", ".xlsm":
		return Load(file)
	default:
		return fail(&model.ParseError{Err: fmt.Errorf("unsupported input extension %q", filepath.Ext(path))})
	}
}

// cellFunc 将第 row 行（0 起，含表头）第 col 列的原始文本转为单元格值
type cellFunc func(row, col int, raw string) (model.Value, error)

func build(rows [][]string, cell cellFunc) (*model.Table, Status) {
	if len(rows) == 0 {
		return fail(&model.EmptyFileError{})
	}

	header := uniqueHeader(rows[0])
	t, err := model.NewTable(header...)
	if err != nil {
		return fail(&model.ParseError{Err: err})
	}

	for i, raw := range rows[1:] {
		if isBlank(raw) {
			continue
		}
		values := make([]model.Value, len(header))
		for j, text := range raw {
			if j >= len(header) {
				if strings.TrimSpace(text) != "" {
					return fail(&model.ParseError{Err: fmt.Errorf("row %d has data beyond the last header column", i+2)})
				}
				continue
			}
			v, err := cell(i+1, j, text)
			if err != nil {
				return fail(&model.ParseError{Column: header[j], Row: i + 1, Err: err})
			}
			values[j] = v
		}
		t.Append(values...)
	}

	if t.Len() == 0 {
		return fail(&model.EmptyFileError{})
	}
	return t, Status{OK: true, Message: successMessage}
}

// uniqueHeader 空列名记为 "Unnamed: i"，重复列名追加 ".1"、".2"
func uniqueHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	counts := make(map[string]int, len(raw))
	for i, name := range raw {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for seen[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func fail(err error) (*model.Table, Status) {
	return nil, Status{Message: err.Error(), Err: err}
}

// IsEmptyFile 是否为空文件错误
func (s Status) IsEmptyFile() bool {
	var e *model.EmptyFileError
	return errors.As(s.Err, &e)
}
