// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scholarcheck/scholarcheck-mcp/internal/column"
)

// MetadataListColumns describes the list_columns tool.
var MetadataListColumns = &mcp.Tool{
	Name: "list_columns",
	Description: "List the columns of a roster file together with their standardized names, " +
		"to help choose client_columns and database_columns for find_duplicates. " +
		"Supported formats: xlsx (base64), csv, tsv, yaml, json.",
	InputSchema: sourceSchema,
}

// OutputListColumns is the output for the ListColumns tool.
type OutputListColumns struct {
	// Columns are the distinct column labels of all tables, sorted.
	Columns []column.Option `json:"columns"`
	// ParserUsed is the name of the parser that was selected.
	ParserUsed string `json:"parser_used"`
	TableCount int    `json:"table_count"`
	RowCount   int    `json:"row_count"`
}

// ListColumns parses one roster and lists its columns. Unlike FindDuplicates
// it reports parse failures as errors.
func (s *Service) ListColumns(ctx context.Context, _ *mcp.CallToolRequest, input InputSource) (*mcp.CallToolResult, OutputListColumns, error) {
	if input.Content == "" {
		return nil, OutputListColumns{}, fmt.Errorf("content is required")
	}
	src, err := input.source()
	if err != nil {
		return nil, OutputListColumns{}, err
	}
	res, err := s.pipeline.ParseWithMeta(ctx, src)
	if err != nil {
		return nil, OutputListColumns{}, err
	}
	return nil, OutputListColumns{
		Columns:    s.rules.Options(res.Collection),
		ParserUsed: res.ParserUsed,
		TableCount: res.TableCount,
		RowCount:   res.RowCount,
	}, nil
}
