// SPDX-License-Identifier: Apache-2.0

package table

// Table is an ordered sequence of records sharing one column set.
// Rows are aligned with Columns.
type Table struct {
	// Label is opaque provenance, e.g. a sheet name or "Page_3_Table_1".
	Label   string
	Columns []string
	Rows    [][]Value
}

// Field is one named cell of a record, used when building tables from
// record-oriented input.
type Field struct {
	Name  string
	Value Value
}

// New creates an empty table with the given columns.
func New(label string, columns []string) *Table {
	return &Table{
		Label:   label,
		Columns: append([]string(nil), columns...),
	}
}

// FromRecords builds a table from records whose fields may differ. Columns are
// the union of field names in first-seen order; absent fields are null.
func FromRecords(label string, records [][]Field) *Table {
	var columns []string
	seen := make(map[string]int)
	for _, rec := range records {
		for _, f := range rec {
			if _, ok := seen[f.Name]; !ok {
				seen[f.Name] = len(columns)
				columns = append(columns, f.Name)
			}
		}
	}

	t := New(label, columns)
	for _, rec := range records {
		row := make([]Value, len(columns))
		for _, f := range rec {
			row[seen[f.Name]] = f.Value
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Append adds a row, padding with nulls or truncating to the column count.
func (t *Table) Append(values ...Value) {
	row := make([]Value, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0 || len(t.Columns) == 0
}

// Index returns the position of a column label, or -1.
func (t *Table) Index(label string) int {
	for i, c := range t.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// Missing returns the labels that are not columns of the table, in the order given.
func (t *Table) Missing(labels []string) []string {
	var missing []string
	for _, l := range labels {
		if t.Index(l) < 0 {
			missing = append(missing, l)
		}
	}
	return missing
}

// Column returns the values of a column, or nil when the label is absent.
func (t *Table) Column(label string) []Value {
	idx := t.Index(label)
	if idx < 0 {
		return nil
	}
	values := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}

// Record returns row i as named fields.
func (t *Table) Record(i int) []Field {
	row := t.Rows[i]
	fields := make([]Field, len(t.Columns))
	for j, c := range t.Columns {
		var v Value
		if j < len(row) {
			v = row[j]
		}
		fields[j] = Field{Name: c, Value: v}
	}
	return fields
}
