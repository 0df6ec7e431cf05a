// SPDX-License-Identifier: Apache-2.0

package column

import "errors"

// ErrNoSuitableColumns means a target table has no columns aligning with the
// client selection.
var ErrNoSuitableColumns = errors.New("no suitable columns")

// Resolution is the set of target columns chosen for matching.
type Resolution struct {
	// Columns are target column labels aligned with the client selection.
	Columns []string
	// Standardized is true when Columns were found by canonical name rather
	// than the literal database selection.
	Standardized bool
}

// Resolve locates the columns of a target table that correspond to the client
// selection.
//
// Every client column is first standardized and matched against the first
// target column with the same standardized name; a single miss discards the
// whole attempt. Otherwise the explicit database selection is used, keeping
// only labels literally present in the target. Resolution fails with
// ErrNoSuitableColumns unless the result has one column per client column.
func (r *RuleSet) Resolve(target, client, database []string) (Resolution, error) {
	if cols, ok := r.resolveStandardized(target, client); ok {
		return Resolution{Columns: cols, Standardized: true}, nil
	}

	present := make(map[string]bool, len(target))
	for _, c := range target {
		present[c] = true
	}
	var cols []string
	for _, c := range database {
		if present[c] {
			cols = append(cols, c)
		}
	}
	if len(cols) != len(client) {
		return Resolution{Columns: cols}, ErrNoSuitableColumns
	}
	return Resolution{Columns: cols}, nil
}

func (r *RuleSet) resolveStandardized(target, client []string) ([]string, bool) {
	if len(client) == 0 {
		return nil, false
	}
	standardized := make([]string, len(target))
	for i, c := range target {
		standardized[i] = r.Standardize(c)
	}

	cols := make([]string, 0, len(client))
	for _, c := range client {
		want := r.Standardize(c)
		found := false
		for i, std := range standardized {
			if std == want {
				cols = append(cols, target[i])
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return cols, true
}
