// SPDX-License-Identifier: Apache-2.0

package column_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarcheck/scholarcheck-mcp/internal/column"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// ---------------------------------------------------------------------------
// Standardize
// ---------------------------------------------------------------------------

func TestStandardize(t *testing.T) {
	rules := column.Default()

	tests := []struct {
		name  string
		label string
		want  string
	}{
		{name: "exact variant", label: "Applicant Name", want: "name"},
		{name: "lowercase variant", label: "roll no", want: "roll_number"},
		{name: "case insensitive", label: "MOBILE", want: "mobile_number"},
		{name: "apostrophe is kept", label: "Father's Name", want: "father_name"},
		{name: "underscore separator", label: "Student_Name", want: "name"},
		{name: "space separator", label: "application id", want: "roll_number"},
		{name: "email address", label: "email address", want: "email"},
		{name: "surrounding whitespace", label: "  Date Of Birth  ", want: "dob"},
		{name: "hyphen separator", label: "ROLL-NO", want: "roll_number"},
		{name: "mixed separator run", label: "Roll _- No", want: "roll_number"},
		{name: "canonical name maps to itself", label: "roll_number", want: "roll_number"},
		{name: "vertical tab separator", label: "Roll\vNo", want: "roll_number"},
		{name: "em space separator", label: "Student\u2003Name", want: "name"},
		{name: "no-break space separator", label: "Roll\u00a0No", want: "roll_number"},
		{name: "no-break space padding", label: "\u00a0Email\u00a0", want: "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Standardize(tt.label))
		})
	}
}

// Unmapped labels come back as the caller's original text, not the cleaned
// form. Mapped and unmapped labels are therefore compared differently during
// resolution; this pins that asymmetry.
func TestStandardize_UnmappedReturnsOriginalLabel(t *testing.T) {
	rules := column.Default()
	assert.Equal(t, "Unique Header", rules.Standardize("Unique Header"))
	assert.Equal(t, "  Another_Special-Column ", rules.Standardize("  Another_Special-Column "))
	assert.NotEqual(t, rules.Standardize("ID"), rules.Standardize("id"))
}

func TestStandardize_SeparatorInsensitive(t *testing.T) {
	rules := column.Default()
	for _, label := range []string{"Roll No", "roll_no", "ROLL-NO"} {
		assert.Equal(t, "roll_number", rules.Standardize(label), label)
	}
}

func TestStandardize_Idempotent(t *testing.T) {
	rules := column.Default()
	labels := []string{"Roll No", "Student Name", "E-mail", "Unique Header", "dob", "Phone_Number", "", "  x  "}
	for _, l := range labels {
		once := rules.Standardize(l)
		assert.Equal(t, once, rules.Standardize(once), l)
	}
}

func TestStandardizeAny(t *testing.T) {
	rules := column.Default()
	assert.Equal(t, "123", rules.StandardizeAny(123))
	assert.Equal(t, "<nil>", rules.StandardizeAny(nil))
	assert.Equal(t, "email", rules.StandardizeAny("Email ID"))
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "roll no", column.CleanLabel("  ROLL__NO "))
	assert.Equal(t, "a b c", column.CleanLabel("a-b\tc"))
	assert.Equal(t, "roll no", column.CleanLabel("\u00a0Roll\u2003\vNo\u3000"))
	assert.Equal(t, "x", column.CleanLabel("_x-"))
	assert.Empty(t, column.CleanLabel(" \u00a0_ "))
}

// ---------------------------------------------------------------------------
// RuleSet
// ---------------------------------------------------------------------------

func TestNewRuleSet_Validation(t *testing.T) {
	_, err := column.NewRuleSet([]column.Rule{{Field: "", Variants: []string{"x"}}})
	require.ErrorIs(t, err, column.ErrInvalidRules)

	_, err = column.NewRuleSet([]column.Rule{{Field: "a", Variants: []string{"x"}}, {Field: "a"}})
	require.ErrorIs(t, err, column.ErrInvalidRules)

	_, err = column.NewRuleSet([]column.Rule{
		{Field: "name", Variants: []string{"roll number"}},
		{Field: "roll_number", Variants: []string{"roll no"}},
	})
	require.ErrorIs(t, err, column.ErrInvalidRules, "earlier rule shadows a later canonical name")

	rs, err := column.NewRuleSet([]column.Rule{{Field: "enrolment", Variants: []string{"Enrolment No"}}})
	require.NoError(t, err)
	assert.Equal(t, "enrolment", rs.Standardize("ENROLMENT_NO"))
	assert.Equal(t, []string{"enrolment"}, rs.Fields())
}

func TestDefault_Fields(t *testing.T) {
	assert.Equal(t, []string{"name", "roll_number", "mobile_number", "email", "father_name", "dob"}, column.Default().Fields())
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	rules := column.Default()

	tests := []struct {
		name             string
		target           []string
		client           []string
		database         []string
		wantCols         []string
		wantStandardized bool
		wantErr          bool
	}{
		{
			name:             "standardized names align different headers",
			target:           []string{"Sr", "Student Name", "Roll No"},
			client:           []string{"Name", "Application ID"},
			database:         []string{"Sr"},
			wantCols:         []string{"Student Name", "Roll No"},
			wantStandardized: true,
		},
		{
			name:             "first target column with the canonical name wins",
			target:           []string{"Applicant Name", "Student Name"},
			client:           []string{"Name"},
			database:         []string{"Student Name"},
			wantCols:         []string{"Applicant Name"},
			wantStandardized: true,
		},
		{
			name:     "partial standardized match falls back to database selection",
			target:   []string{"Student Name", "Roll No"},
			client:   []string{"Name", "ID"},
			database: []string{"Student Name", "Roll No"},
			wantCols: []string{"Student Name", "Roll No"},
		},
		{
			name:             "unmapped client label matches the identical target label",
			target:           []string{"ID", "Other"},
			client:           []string{"ID"},
			database:         []string{"Other"},
			wantCols:         []string{"ID"},
			wantStandardized: true,
		},
		{
			name:     "literal fallback keeps database selection order",
			target:   []string{"B", "A"},
			client:   []string{"X", "Y"},
			database: []string{"A", "B"},
			wantCols: []string{"A", "B"},
		},
		{
			name:     "fallback with too few present columns fails",
			target:   []string{"Student Name"},
			client:   []string{"Name", "ID"},
			database: []string{"Student Name", "Roll No"},
			wantErr:  true,
		},
		{
			name:     "database selection longer than client selection fails",
			target:   []string{"A", "B"},
			client:   []string{"X"},
			database: []string{"A", "B"},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rules.Resolve(tt.target, tt.client, tt.database)
			if tt.wantErr {
				require.ErrorIs(t, err, column.ErrNoSuitableColumns)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, res.Columns)
			assert.Equal(t, tt.wantStandardized, res.Standardized)
		})
	}
}

// ---------------------------------------------------------------------------
// Names / Options
// ---------------------------------------------------------------------------

func TestNames(t *testing.T) {
	df1 := table.New("t1", []string{"A", "B"})
	df2 := table.New("t2", []string{"C", "D", "A"})

	assert.Equal(t, []string{"A", "B", "C", "D"}, column.Names(table.List{Tables: []*table.Table{df1, df2}}))
	assert.Equal(t, []string{"A", "B", "C", "D"}, column.Names(table.Workbook{Name: "f", Sheets: []*table.Table{df1, df2}}))
	assert.Empty(t, column.Names(table.List{}))
	assert.Empty(t, column.Names(table.Workbooks{}))
	assert.Empty(t, column.Names(nil))
	assert.Empty(t, column.Names(table.List{Tables: []*table.Table{table.New("e", nil)}}))
}

func TestStandardizedMapAndOptions(t *testing.T) {
	rules := column.Default()
	c := table.List{Tables: []*table.Table{table.New("t", []string{"Roll No", "Remarks"})}}

	assert.Equal(t, map[string]string{"Roll No": "roll_number", "Remarks": "Remarks"}, rules.StandardizedMap(c))
	assert.Equal(t, []column.Option{
		{Label: "Remarks (Std: Remarks)", Column: "Remarks", Standardized: "Remarks"},
		{Label: "Roll No (Std: roll_number)", Column: "Roll No", Standardized: "roll_number"},
	}, rules.Options(c))
}

// ---------------------------------------------------------------------------
// Rules files
// ---------------------------------------------------------------------------

func TestParseRules(t *testing.T) {
	rs, err := column.ParseRules("rules.yaml", []byte(`
rules:
  - field: name
    variants: [name, pupil name]
  - field: enrolment
    variants: ["Enrolment No", enrolment_number]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "enrolment"}, rs.Fields())
	assert.Equal(t, "name", rs.Standardize("Pupil-Name"))
	assert.Equal(t, "enrolment", rs.Standardize("enrolment number"))
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "field is not an identifier", data: "rules:\n  - field: Roll Number\n    variants: [roll no]\n"},
		{name: "empty variants", data: "rules:\n  - field: name\n    variants: []\n"},
		{name: "missing rules", data: "other: 1\n"},
		{name: "unknown rule key", data: "rules:\n  - field: name\n    variants: [a]\n    weight: 2\n"},
		{name: "not yaml", data: "rules: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := column.ParseRules("bad.yaml", []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, column.ErrInvalidRules)
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - field: dob\n    variants: [birthday]\n"), 0o600))

	rs, err := column.LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "dob", rs.Standardize("Birthday"))

	_, err = column.LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
