package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readRows читает все строки активного листа, включая заголовок
func readRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFatal, err)
	}
	defer f.Close()
	return activeRows(f)
}

func activeRows(f *excelize.File) ([][]string, error) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrFatal)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFatal, err)
	}
	return rows, nil
}

// cell возвращает значение колонки или пустую строку, если строка короче
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseFlag истинно только для значения 1 (TRUE в ячейке логического типа тоже равно 1)
func parseFlag(v string) bool {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "TRUE") {
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == 1
}
