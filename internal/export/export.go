// SPDX-License-Identifier: Apache-2.0

// Package export writes match results as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/scholarcheck/scholarcheck-mcp/internal/matcher"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// DefaultFileName is used when the caller does not name the output.
const DefaultFileName = "matching_results.xlsx"

// WriteXLSX writes the result table to a workbook with a single Results
// sheet: a header row followed by one row per client record.
func WriteXLSX(w io.Writer, res *matcher.Result) error {
	t := res.Table()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", t.Label); err != nil {
		return fmt.Errorf("failed to name result sheet: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := setRow(f, t.Label, 1, header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cell(v)
		}
		if err := setRow(f, t.Label, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	if len(cells) == 0 {
		return nil
	}
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// cell keeps numbers numeric; nulls are written as empty cells. Integers
// a spreadsheet number would round are written as text.
func cell(v table.Value) any {
	if f, ok := v.Float(); ok && v.Exact() {
		return f
	}
	return v.String()
}

// WriteCSV writes the result table as CSV with a header row.
func WriteCSV(w io.Writer, res *matcher.Result) error {
	t := res.Table()

	cw := csv.NewWriter(w)
	if len(t.Columns) > 0 {
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the result to path, choosing CSV for a .csv extension and
// XLSX otherwise. An empty path means DefaultFileName.
func WriteFile(path string, res *matcher.Result) (string, error) {
	if path == "" {
		path = DefaultFileName
	}
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	write := WriteXLSX
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		write = WriteCSV
	}
	if err := write(out, res); err != nil {
		_ = out.Close()
		return "", err
	}
	return path, out.Close()
}
