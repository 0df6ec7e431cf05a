// SPDX-License-Identifier: Apache-2.0

// Package parsers provides the file parsers registered with the source pipeline.
package parsers

import (
	"strings"

	"github.com/scholarcheck/scholarcheck-mcp/internal/source"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// All returns every parser in detection order. Binary formats come first
// so that content sniffing of the text formats never sees a zip archive.
func All() []source.Parser {
	return []source.Parser{
		NewXLSXParser(),
		NewCSVParser(),
		NewYAMLParser(),
	}
}

// NewDefaultPipeline builds a pipeline with All parsers registered.
func NewDefaultPipeline() *source.Pipeline {
	return source.NewPipeline(All()...)
}

// grid builds a table from rows of cells, using the first row as header.
// Rows may be ragged; the widest row decides the column count. Blank cells
// become nulls and rows with no content at all are dropped.
func grid(label string, rows [][]string) *table.Table {
	if len(rows) == 0 {
		return table.New(label, nil)
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	header := make([]string, width)
	copy(header, rows[0])

	t := table.New(label, table.HeaderLabels(header))
	for _, r := range rows[1:] {
		if blankRow(r) {
			continue
		}
		values := make([]table.Value, width)
		for i := range values {
			if i < len(r) && strings.TrimSpace(r[i]) != "" {
				values[i] = table.String(r[i])
			} else {
				values[i] = table.Null()
			}
		}
		t.Append(values...)
	}
	return t
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
