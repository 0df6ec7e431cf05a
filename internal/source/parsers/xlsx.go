// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/scholarcheck/scholarcheck-mcp/internal/source"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// zipMagic starts every OOXML workbook.
var zipMagic = []byte("PK\x03\x04")

// XLSXParser reads every sheet of an Excel workbook. The first row of each
// sheet is its header.
type XLSXParser struct{}

// NewXLSXParser creates a new XLSXParser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Name() string {
	return "xlsx"
}

// CanHandle returns true for xlsx/xlsm hints, or for unhinted content that
// looks like a zip archive.
func (p *XLSXParser) CanHandle(src source.Source) bool {
	switch source.Hint(src) {
	case "xlsx", "xlsm", "excel":
		return true
	case "":
		return bytes.HasPrefix(src.Content, zipMagic)
	}
	return false
}

// Parse returns a workbook with one table per sheet, in sheet order.
func (p *XLSXParser) Parse(ctx context.Context, src source.Source) (table.Collection, error) {
	f, err := excelize.OpenReader(bytes.NewReader(src.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := table.Workbook{Name: src.ID}
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		wb.Sheets = append(wb.Sheets, grid(sheet, rows))
	}
	return wb, nil
}
