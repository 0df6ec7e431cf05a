// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"time"

	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// Status is the verdict for one client record.
type Status string

const (
	StatusDuplicate Status = "Duplicate Found"
	StatusNotFound  Status = "Not Found"
	StatusSkipped   Status = "Skipped (Empty Client Data)"
)

// Fields appended to every client record in the result table.
const (
	FieldStatus       = "status"
	FieldMatchedFile  = "matched_file"
	FieldMatchedSheet = "matched_sheet"
)

// ResultSheet is the label of the result table.
const ResultSheet = "Results"

// Method tells how a duplicate was detected.
type Method string

const (
	MethodExact Method = "exact"
	MethodFuzzy Method = "fuzzy"
)

// Row is the verdict for one client record. Rows are never modified after
// the matcher returns them.
type Row struct {
	// Record is a copy of the client record's fields in column order.
	Record       []table.Field
	Status       Status
	MatchedFile  *string
	MatchedSheet *string

	// Method, Score and MatchedRow describe a duplicate; MatchedRow is the
	// row index within the matched sheet, or -1.
	Method     Method
	Score      float64
	MatchedRow int
}

// Summary counts verdicts of a run.
type Summary struct {
	Total      int           `json:"total"`
	Duplicates int           `json:"duplicates"`
	NotFound   int           `json:"not_found"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"duration"`
}

// Result is the output of one Match call.
type Result struct {
	RunID   string
	Rows    []Row
	Summary Summary
}

// Empty reports whether no client record was processed.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Table renders the result as a table: the union of client columns in
// first-seen order followed by status, matched_file and matched_sheet.
// An empty result has no columns at all.
func (r *Result) Table() *table.Table {
	if r.Empty() {
		return table.New(ResultSheet, nil)
	}

	var columns []string
	index := make(map[string]int)
	add := func(name string) {
		if _, ok := index[name]; !ok {
			index[name] = len(columns)
			columns = append(columns, name)
		}
	}
	for _, row := range r.Rows {
		for _, f := range row.Record {
			add(f.Name)
		}
	}
	add(FieldStatus)
	add(FieldMatchedFile)
	add(FieldMatchedSheet)

	t := table.New(ResultSheet, columns)
	for _, row := range r.Rows {
		values := make([]table.Value, len(columns))
		for _, f := range row.Record {
			values[index[f.Name]] = f.Value
		}
		values[index[FieldStatus]] = table.String(string(row.Status))
		values[index[FieldMatchedFile]] = optional(row.MatchedFile)
		values[index[FieldMatchedSheet]] = optional(row.MatchedSheet)
		t.Rows = append(t.Rows, values)
	}
	return t
}

func summarize(rows []Row, elapsed time.Duration) Summary {
	s := Summary{Total: len(rows), Duration: elapsed}
	for _, row := range rows {
		switch row.Status {
		case StatusDuplicate:
			s.Duplicates++
		case StatusNotFound:
			s.NotFound++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

func optional(s *string) table.Value {
	if s == nil {
		return table.Null()
	}
	return table.String(*s)
}
