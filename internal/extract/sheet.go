package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseSpreadsheet flattens every sheet of a workbook to a cell grid.
// CSV input becomes a single-sheet grid.
func parseSpreadsheet(filename string, data []byte) ([][][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return parseCSVGrid(data)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var grid [][][]string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			// a damaged sheet shouldn't sink its siblings
			continue
		}
		if len(rows) > 0 {
			grid = append(grid, rows)
		}
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("workbook has no readable rows")
	}
	return grid, nil
}

func parseCSVGrid(data []byte) ([][][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	// client CSVs are split between comma and semicolon; sniff the first line
	if i := bytes.IndexByte(data, '\n'); i > 0 {
		head := data[:i]
		if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
			r.Comma = ';'
		}
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no rows")
	}
	return [][][]string{rows}, nil
}
