// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/scholarcheck/scholarcheck-mcp/internal/source"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// DefaultTableLabel labels a document holding a single list of records.
const DefaultTableLabel = "Table_1"

var errRecordShape = errors.New("expected a list of records or a mapping of sheet names to lists of records")

// YAMLParser reads YAML and JSON roster exports. A top-level list of
// records becomes one table; a top-level mapping is read as sheet name to
// records, keeping the declared order.
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

func (p *YAMLParser) Name() string {
	return "yaml"
}

func (p *YAMLParser) CanHandle(src source.Source) bool {
	switch source.Hint(src) {
	case "yaml", "yml", "json":
		return true
	case "":
	default:
		return false
	}
	content := strings.TrimSpace(string(src.Content))
	if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") || strings.HasPrefix(content, "- ") {
		return true
	}
	first, _, _ := strings.Cut(content, "\n")
	return strings.Contains(first, ":") && !strings.HasPrefix(content, "#")
}

func (p *YAMLParser) Parse(_ context.Context, src source.Source) (table.Collection, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(src.Content, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML/JSON: %w", err)
	}

	wb := table.Workbook{Name: src.ID}
	switch d := doc.(type) {
	case nil:
	case []any:
		t, err := recordsTable(DefaultTableLabel, d)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, t)
	case yaml.MapSlice:
		for _, item := range d {
			name := fmt.Sprint(item.Key)
			list, ok := item.Value.([]any)
			if !ok && item.Value != nil {
				return nil, fmt.Errorf("sheet %q: %w", name, errRecordShape)
			}
			t, err := recordsTable(name, list)
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", name, err)
			}
			wb.Sheets = append(wb.Sheets, t)
		}
	default:
		return nil, errRecordShape
	}
	return wb, nil
}

func recordsTable(label string, items []any) (*table.Table, error) {
	records := make([][]table.Field, 0, len(items))
	for i, item := range items {
		m, ok := item.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("record %d is %T, not a mapping: %w", i, item, errRecordShape)
		}
		rec := make([]table.Field, 0, len(m))
		for _, kv := range m {
			rec = append(rec, table.Field{Name: fmt.Sprint(kv.Key), Value: table.FromAny(kv.Value)})
		}
		records = append(records, rec)
	}
	return table.FromRecords(label, records), nil
}
