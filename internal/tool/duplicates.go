// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scholarcheck/scholarcheck-mcp/internal/export"
	"github.com/scholarcheck/scholarcheck-mcp/internal/matcher"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// MetadataFindDuplicates describes the find_duplicates tool.
var MetadataFindDuplicates = &mcp.Tool{
	Name: "find_duplicates",
	Description: "Check every applicant of a client roster against one or more database rosters and " +
		"report whether each was already seen. " +
		"Select 1 or 2 client columns (e.g. name and roll number) and the corresponding database columns. " +
		"Column headers are standardized (\"Roll No\", \"Application ID\" -> roll_number) so differently " +
		"labelled rosters still line up. Values are compared case and whitespace insensitively, first exactly " +
		"and then by fuzzy similarity against the threshold. " +
		"Each client row gets status \"Duplicate Found\", \"Not Found\" or \"Skipped (Empty Client Data)\" " +
		"plus the file and sheet of the first match.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"client", "client_columns", "database_columns"},
		"properties": map[string]interface{}{
			"client": sourceSchema,
			"databases": map[string]interface{}{
				"type":        "array",
				"description": "Database rosters searched in order; the first one with a match wins.",
				"items":       sourceSchema,
			},
			"client_columns": map[string]interface{}{
				"type":        "array",
				"description": "1 or 2 client columns forming the match key, in key order.",
				"items":       map[string]interface{}{"type": "string"},
				"maxItems":    MaxColumns,
			},
			"database_columns": map[string]interface{}{
				"type":        "array",
				"description": "1 or 2 database columns used when standardized headers do not line up.",
				"items":       map[string]interface{}{"type": "string"},
				"maxItems":    MaxColumns,
			},
			"threshold": map[string]interface{}{
				"type":        "integer",
				"description": "Minimum fuzzy similarity (0-100) for a duplicate. Defaults to the server setting.",
				"minimum":     0,
				"maximum":     100,
			},
			"include_xlsx": map[string]interface{}{
				"type":        "boolean",
				"description": "Also return the results as a base64 encoded xlsx workbook.",
			},
		},
	},
}

// InputFindDuplicates is the input for the FindDuplicates tool.
type InputFindDuplicates struct {
	Client          InputSource   `json:"client"`
	Databases       []InputSource `json:"databases"`
	ClientColumns   []string      `json:"client_columns"`
	DatabaseColumns []string      `json:"database_columns"`
	Threshold       *int          `json:"threshold,omitempty"`
	IncludeXLSX     bool          `json:"include_xlsx,omitempty"`
}

// MatchDetail explains one duplicate.
type MatchDetail struct {
	// Row is the index of the client row in Rows.
	Row        int            `json:"row"`
	Method     matcher.Method `json:"method"`
	Score      float64        `json:"score"`
	MatchedRow int            `json:"matched_row"`
}

// OutputFindDuplicates is the output for the FindDuplicates tool.
type OutputFindDuplicates struct {
	RunID string `json:"run_id"`
	// Columns are the client columns followed by status, matched_file and matched_sheet.
	Columns []string `json:"columns"`
	// Rows hold one entry per client row; null cells are empty strings.
	Rows    [][]string      `json:"rows"`
	Matches []MatchDetail   `json:"matches"`
	Summary matcher.Summary `json:"summary"`
	// XLSX is the base64 encoded results workbook when requested.
	XLSX     string   `json:"xlsx,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// FindDuplicates parses the client and database rosters and runs the matcher
// over them.
func (s *Service) FindDuplicates(ctx context.Context, _ *mcp.CallToolRequest, input InputFindDuplicates) (*mcp.CallToolResult, OutputFindDuplicates, error) {
	if input.Client.Content == "" {
		return nil, OutputFindDuplicates{}, fmt.Errorf("client content is required")
	}
	if len(input.ClientColumns) > MaxColumns || len(input.DatabaseColumns) > MaxColumns {
		return nil, OutputFindDuplicates{}, fmt.Errorf("%w: select at most %d client and %d database columns, got %d and %d",
			ErrTooManyColumns, MaxColumns, MaxColumns, len(input.ClientColumns), len(input.DatabaseColumns))
	}
	if len(input.Databases) == 0 && s.database == nil {
		return nil, OutputFindDuplicates{}, fmt.Errorf("at least one database source is required")
	}

	var out OutputFindDuplicates
	client, clientWarning := s.load(ctx, input.Client)
	out.addWarning(clientWarning)

	databases := make(table.Merge, 0, len(input.Databases)+1)
	for _, db := range input.Databases {
		coll, warning := s.load(ctx, db)
		out.addWarning(warning)
		databases = append(databases, coll)
	}
	if s.database != nil {
		databases = append(databases, s.database)
	}

	threshold := s.threshold
	if input.Threshold != nil {
		threshold = *input.Threshold
	}

	res, err := s.matcher.Match(ctx, matcher.Request{
		Client:          client,
		ClientColumns:   input.ClientColumns,
		Database:        databases,
		DatabaseColumns: input.DatabaseColumns,
		Threshold:       threshold,
	})
	if err != nil {
		return nil, OutputFindDuplicates{}, err
	}

	out.RunID = res.RunID
	out.Summary = res.Summary
	t := res.Table()
	out.Columns = append([]string{}, t.Columns...)
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		out.Rows[i] = cells
	}
	out.Matches = []MatchDetail{}
	for i, row := range res.Rows {
		if row.Status == matcher.StatusDuplicate {
			out.Matches = append(out.Matches, MatchDetail{Row: i, Method: row.Method, Score: row.Score, MatchedRow: row.MatchedRow})
		}
	}

	switch {
	case len(input.ClientColumns) == 0 || len(input.DatabaseColumns) == 0:
		out.Note = fmt.Sprintf("select 1 to %d client columns and 1 to %d database columns", MaxColumns, MaxColumns)
	case res.Empty() && clientWarning != "":
		out.Note = "client source could not be read: " + clientWarning
	case res.Empty():
		out.Note = "no client table contains all selected client columns"
	}

	if input.IncludeXLSX {
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, res); err != nil {
			return nil, OutputFindDuplicates{}, err
		}
		out.XLSX = base64.StdEncoding.EncodeToString(buf.Bytes())
	}
	return nil, out, nil
}

func (o *OutputFindDuplicates) addWarning(w string) {
	if w != "" {
		o.Warnings = append(o.Warnings, w)
	}
}
