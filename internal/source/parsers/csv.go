// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/scholarcheck/scholarcheck-mcp/internal/source"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser reads a delimited text file as a single-sheet workbook named
// after the file.
type CSVParser struct{}

// NewCSVParser creates a new CSVParser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Name() string {
	return "csv"
}

// CanHandle returns true for csv/tsv hints. Unhinted content is accepted when
// its first line is printable text that does not look like YAML or JSON: a
// comma separated header without ": ", or a single header with no colon.
func (p *CSVParser) CanHandle(src source.Source) bool {
	switch source.Hint(src) {
	case "csv", "tsv":
		return true
	case "":
		first, _, _ := strings.Cut(string(bytes.TrimPrefix(src.Content, utf8BOM)), "\n")
		first = strings.TrimSpace(first)
		if first == "" || strings.ContainsAny(first[:1], "{[-#") || !printable(first) {
			return false
		}
		if strings.Contains(first, ",") {
			return !strings.Contains(first, ": ")
		}
		return !strings.Contains(first, ":")
	}
	return false
}

func printable(line string) bool {
	return utf8.ValidString(line) && strings.IndexFunc(line, func(r rune) bool {
		return unicode.IsControl(r) && r != '\t'
	}) < 0
}

func (p *CSVParser) Parse(_ context.Context, src source.Source) (table.Collection, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(src.Content, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if source.Hint(src) == "tsv" {
		r.Comma = '\t'
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return table.Workbook{
		Name:   src.ID,
		Sheets: []*table.Table{grid(sheetName(src.ID), rows)},
	}, nil
}

// sheetName derives a sheet label from a file name.
func sheetName(id string) string {
	name := strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))
	if name == "" || name == "." || name == "/" {
		return "Sheet1"
	}
	return name
}
