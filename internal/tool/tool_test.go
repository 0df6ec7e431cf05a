// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/scholarcheck/scholarcheck-mcp/internal/matcher"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

const (
	clientCSV = "Name,ID,Note\nAlice Smith,101,\nBob,7,\n,,late\n"
	dbCSV     = "Applicant Name,ID\nalice  smith,101\nCarol,9\n"
)

func intPtr(n int) *int { return &n }

// status returns the status cell of row i.
func status(t *testing.T, output OutputFindDuplicates, i int) string {
	t.Helper()
	for j, c := range output.Columns {
		if c == matcher.FieldStatus {
			return output.Rows[i][j]
		}
	}
	t.Fatalf("no status column in %v", output.Columns)
	return ""
}

func xlsxBase64(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Candidate Name", "Roll No"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Bob", "7"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// ---------------------------------------------------------------------------
// find_duplicates
// ---------------------------------------------------------------------------

func TestFindDuplicates(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	svc := NewService(Deps{})

	tests := []struct {
		name           string
		input          InputFindDuplicates
		wantErr        bool
		errIs          error
		errContains    string
		validateOutput func(t *testing.T, output OutputFindDuplicates)
	}{
		{
			name:        "empty client content returns error",
			input:       InputFindDuplicates{ClientColumns: []string{"Name"}, DatabaseColumns: []string{"Name"}},
			wantErr:     true,
			errContains: "client content is required",
		},
		{
			name: "three columns are rejected",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				Databases:       []InputSource{{Content: dbCSV, SourceID: "db.csv"}},
				ClientColumns:   []string{"Name", "ID", "Email"},
				DatabaseColumns: []string{"Name"},
			},
			wantErr: true,
			errIs:   ErrTooManyColumns,
		},
		{
			name: "missing database returns error",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				ClientColumns:   []string{"Name"},
				DatabaseColumns: []string{"Name"},
			},
			wantErr:     true,
			errContains: "database source is required",
		},
		{
			name: "out of range threshold returns error",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				Databases:       []InputSource{{Content: dbCSV, SourceID: "db.csv"}},
				ClientColumns:   []string{"Name"},
				DatabaseColumns: []string{"Name"},
				Threshold:       intPtr(101),
			},
			wantErr: true,
			errIs:   matcher.ErrInvalidThreshold,
		},
		{
			name: "csv rosters produce one verdict per client row",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				Databases:       []InputSource{{Content: dbCSV, SourceID: "db.csv"}},
				ClientColumns:   []string{"Name", "ID"},
				DatabaseColumns: []string{"Applicant Name", "ID"},
			},
			validateOutput: func(t *testing.T, output OutputFindDuplicates) {
				assert.NotEmpty(t, output.RunID)
				assert.Equal(t, []string{"Name", "ID", "Note", "status", "matched_file", "matched_sheet"}, output.Columns)
				require.Len(t, output.Rows, 3)
				assert.Equal(t, []string{"Alice Smith", "101", "", "Duplicate Found", "db.csv", "db"}, output.Rows[0])
				assert.Equal(t, []string{"Bob", "7", "", "Not Found", "", ""}, output.Rows[1])
				assert.Equal(t, []string{"", "", "late", "Skipped (Empty Client Data)", "", ""}, output.Rows[2])

				assert.Equal(t, 3, output.Summary.Total)
				assert.Equal(t, 1, output.Summary.Duplicates)
				assert.Equal(t, 1, output.Summary.NotFound)
				assert.Equal(t, 1, output.Summary.Skipped)

				require.Len(t, output.Matches, 1)
				assert.Equal(t, MatchDetail{Row: 0, Method: matcher.MethodExact, Score: 100, MatchedRow: 0}, output.Matches[0])
				assert.Empty(t, output.Warnings)
				assert.Empty(t, output.Note)
				assert.Empty(t, output.XLSX)
			},
		},
		{
			name: "base64 xlsx database with standardized headers",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				Databases:       []InputSource{{Content: xlsxBase64(t), Encoding: "base64", SourceID: "waitlist.xlsx"}},
				ClientColumns:   []string{"Name", "ID"},
				DatabaseColumns: []string{"Candidate Name", "Roll No"},
				Threshold:       intPtr(90),
				IncludeXLSX:     true,
			},
			validateOutput: func(t *testing.T, output OutputFindDuplicates) {
				require.Len(t, output.Rows, 3)
				assert.Equal(t, "Not Found", status(t, output, 0))
				assert.Equal(t, []string{"Bob", "7", "", "Duplicate Found", "waitlist.xlsx", "Sheet1"}, output.Rows[1])

				raw, err := base64.StdEncoding.DecodeString(output.XLSX)
				require.NoError(t, err)
				f, err := excelize.OpenReader(bytes.NewReader(raw))
				require.NoError(t, err)
				defer func() { _ = f.Close() }()
				assert.Equal(t, []string{matcher.ResultSheet}, f.GetSheetList())
			},
		},
		{
			name: "unparseable database degrades to a warning",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				Databases:       []InputSource{{Content: "%PDF-1.7", SourceID: "scan.pdf"}, {Content: "!!!", Encoding: "base64", SourceID: "bad.xlsx"}},
				ClientColumns:   []string{"Name"},
				DatabaseColumns: []string{"Name"},
			},
			validateOutput: func(t *testing.T, output OutputFindDuplicates) {
				assert.Len(t, output.Warnings, 2)
				require.Len(t, output.Rows, 3)
				assert.Equal(t, "Not Found", status(t, output, 0))
				assert.Equal(t, "Not Found", status(t, output, 1))
				assert.Equal(t, "Skipped (Empty Client Data)", status(t, output, 2))
			},
		},
		{
			name: "empty selection returns an empty result with a note",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				Databases:       []InputSource{{Content: dbCSV, SourceID: "db.csv"}},
				ClientColumns:   []string{},
				DatabaseColumns: []string{"Name"},
			},
			validateOutput: func(t *testing.T, output OutputFindDuplicates) {
				assert.Empty(t, output.Rows)
				assert.Empty(t, output.Columns)
				assert.Contains(t, output.Note, "select 1 to 2")
			},
		},
		{
			name: "client without the selected columns",
			input: InputFindDuplicates{
				Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
				Databases:       []InputSource{{Content: dbCSV, SourceID: "db.csv"}},
				ClientColumns:   []string{"Email"},
				DatabaseColumns: []string{"Email"},
			},
			validateOutput: func(t *testing.T, output OutputFindDuplicates) {
				assert.Empty(t, output.Rows)
				assert.Contains(t, output.Note, "no client table")
			},
		},
		{
			name: "unparseable client points the note at the warning",
			input: InputFindDuplicates{
				Client:          InputSource{Content: "%PDF-1.7", SourceID: "scan.pdf"},
				Databases:       []InputSource{{Content: dbCSV, SourceID: "db.csv"}},
				ClientColumns:   []string{"Name"},
				DatabaseColumns: []string{"Name"},
			},
			validateOutput: func(t *testing.T, output OutputFindDuplicates) {
				assert.Empty(t, output.Rows)
				require.Len(t, output.Warnings, 1)
				assert.Contains(t, output.Note, "client source could not be read")
				assert.Contains(t, output.Note, output.Warnings[0])
				assert.NotContains(t, output.Note, "no client table")
			},
		},
		{
			name: "undecodable client points the note at the warning",
			input: InputFindDuplicates{
				Client:          InputSource{Content: "!!!", Encoding: "base64", SourceID: "client.xlsx"},
				Databases:       []InputSource{{Content: dbCSV, SourceID: "db.csv"}},
				ClientColumns:   []string{"Name"},
				DatabaseColumns: []string{"Name"},
			},
			validateOutput: func(t *testing.T, output OutputFindDuplicates) {
				assert.Empty(t, output.Rows)
				assert.Contains(t, output.Note, "client source could not be read")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output, err := svc.FindDuplicates(ctx, req, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Nil(t, result)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestFindDuplicates_ServiceDatabase(t *testing.T) {
	pg := table.New("students", []string{"Applicant Name", "Application ID"})
	pg.Append(table.String("Bob"), table.Number(7))
	svc := NewService(Deps{
		Threshold: intPtr(100),
		Database:  table.Workbook{Name: "postgres", Sheets: []*table.Table{pg}},
	})

	_, output, err := svc.FindDuplicates(context.Background(), &mcp.CallToolRequest{}, InputFindDuplicates{
		Client:          InputSource{Content: clientCSV, SourceID: "client.csv"},
		ClientColumns:   []string{"Name", "ID"},
		DatabaseColumns: []string{"Applicant Name", "Application ID"},
	})
	require.NoError(t, err)
	require.Len(t, output.Rows, 3)
	assert.Equal(t, []string{"Bob", "7", "", "Duplicate Found", "postgres", "students"}, output.Rows[1])
}

// ---------------------------------------------------------------------------
// list_columns
// ---------------------------------------------------------------------------

func TestListColumns(t *testing.T) {
	ctx := context.Background()
	svc := NewService(Deps{})

	_, _, err := svc.ListColumns(ctx, &mcp.CallToolRequest{}, InputSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is required")

	_, _, err = svc.ListColumns(ctx, &mcp.CallToolRequest{}, InputSource{Content: "x", Format: "pdf"})
	assert.Error(t, err)

	_, output, err := svc.ListColumns(ctx, &mcp.CallToolRequest{}, InputSource{
		Content:  xlsxBase64(t),
		Encoding: "base64",
		SourceID: "waitlist.xlsx",
	})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", output.ParserUsed)
	assert.Equal(t, 1, output.TableCount)
	assert.Equal(t, 1, output.RowCount)
	require.Len(t, output.Columns, 2)
	assert.Equal(t, "Candidate Name (Std: name)", output.Columns[0].Label)
	assert.Equal(t, "Roll No", output.Columns[1].Column)
	assert.Equal(t, "roll_number", output.Columns[1].Standardized)
}

func TestInputSource_UnknownEncoding(t *testing.T) {
	_, err := InputSource{Content: "abc", Encoding: "gzip"}.source()
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

func TestNewServer_RegistersTools(t *testing.T) {
	ctx := context.Background()
	server := NewServer("test", NewService(Deps{}))

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"find_duplicates", "list_columns"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_columns",
		Arguments: map[string]any{"content": clientCSV, "format": "csv", "source_id": "client.csv"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
