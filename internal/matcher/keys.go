// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"strings"

	"github.com/scholarcheck/scholarcheck-mcp/internal/normalize"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// compositeKeys builds one key per row: the normalized text of each selected
// column joined by a single space, in selection order. Every column must
// exist in t.
func compositeKeys(n normalize.Normalizer, t *table.Table, columns []string) []string {
	parts := make([][]table.Value, len(columns))
	for i, c := range columns {
		parts[i] = n.Values(asText(t.Column(c)))
	}

	keys := make([]string, t.Len())
	fields := make([]string, len(columns))
	for r := range keys {
		for i := range columns {
			fields[i] = parts[i][r].String()
		}
		keys[r] = strings.Join(fields, " ")
	}
	return keys
}

// asText coerces a column to strings so numeric columns are normalized too.
func asText(values []table.Value) []table.Value {
	out := make([]table.Value, len(values))
	for i, v := range values {
		out[i] = table.String(v.String())
	}
	return out
}

// blank reports whether a key carries no data.
func blank(key string) bool {
	return strings.TrimSpace(key) == ""
}
