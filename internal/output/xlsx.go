package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/docfields/internal/props"
)

// Row is one document of a batch summary.
type Row struct {
	Document string
	Props    *props.Map
	Err      error
}

const summarySheet = "Documents"

// WriteXLSX writes a workbook with one row per document and one column per
// field, in the order fields were first seen. Failed documents carry their
// error in the last column.
func WriteXLSX(w io.Writer, rows []Row) error {
	var columns []string
	index := map[string]int{}
	for _, r := range rows {
		for _, k := range r.Props.Keys() {
			if _, ok := index[k]; !ok {
				index[k] = len(columns)
				columns = append(columns, k)
			}
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	headers := append([]string{"Document"}, columns...)
	headers = append(headers, "Error")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(summarySheet, cell, h)
	}

	for n, r := range rows {
		row := n + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(summarySheet, cell, v)
		}
		write(1, r.Document)
		r.Props.Range(func(k string, v any) bool {
			write(index[k]+2, fmt.Sprint(v))
			return true
		})
		if r.Err != nil {
			write(len(headers), r.Err.Error())
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 32)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
