// SPDX-License-Identifier: Apache-2.0

package column

import (
	"fmt"
	"slices"

	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// Names returns every distinct column label in c, sorted.
func Names(c table.Collection) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, e := range table.Entries(c) {
		if e.Table == nil {
			continue
		}
		for _, col := range e.Table.Columns {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			names = append(names, col)
		}
	}
	slices.Sort(names)
	return names
}

// StandardizedMap maps every column label in c to its standardized form.
func (r *RuleSet) StandardizedMap(c table.Collection) map[string]string {
	names := Names(c)
	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = r.Standardize(n)
	}
	return out
}

// Option is a column offered to a user choosing match columns.
type Option struct {
	Label        string `json:"label"`
	Column       string `json:"column"`
	Standardized string `json:"standardized"`
}

// Options lists the columns of c with display labels of the form
// "<column> (Std: <standardized>)", in Names order.
func (r *RuleSet) Options(c table.Collection) []Option {
	names := Names(c)
	opts := make([]Option, len(names))
	for i, n := range names {
		std := r.Standardize(n)
		opts[i] = Option{
			Label:        fmt.Sprintf("%s (Std: %s)", n, std),
			Column:       n,
			Standardized: std,
		}
	}
	return opts
}
