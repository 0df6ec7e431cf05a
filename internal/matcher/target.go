// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"go.uber.org/zap"

	"github.com/scholarcheck/scholarcheck-mcp/internal/fuzzy"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// target is a database table with resolved columns and precomputed keys.
// Resolution only depends on the table and the selections, so it is done
// once per run instead of once per client record.
type target struct {
	source    string
	subSource string
	columns   []string
	keys      []string
	// first row index of each key, for exact lookups
	exact map[string]int
}

// hit is a match of one client key within a target.
type hit struct {
	target *target
	row    int
	method Method
	score  float64
}

func (m *Matcher) planTargets(db table.Collection, clientCols, dbCols []string, log *zap.Logger) []*target {
	var targets []*target
	for _, e := range table.Entries(db) {
		if e.Table == nil {
			continue
		}
		res, err := m.rules.Resolve(e.Table.Columns, clientCols, dbCols)
		if err != nil {
			log.Debug("no suitable matching columns in database table",
				zap.Error(err),
				zap.String("file", e.Source),
				zap.String("sheet", e.SubSource),
				zap.Int("wanted", len(clientCols)),
				zap.Strings("found", res.Columns))
			continue
		}
		log.Debug("using database columns",
			zap.String("file", e.Source),
			zap.String("sheet", e.SubSource),
			zap.Strings("columns", res.Columns),
			zap.Bool("standardized", res.Standardized))

		keys := compositeKeys(m.normalizer, e.Table, res.Columns)
		exact := make(map[string]int, len(keys))
		for i, k := range keys {
			if _, ok := exact[k]; !ok {
				exact[k] = i
			}
		}
		targets = append(targets, &target{
			source:    e.Source,
			subSource: e.SubSource,
			columns:   res.Columns,
			keys:      keys,
			exact:     exact,
		})
	}
	return targets
}

// lookup scans targets in order and stops at the first table holding an
// exact or fuzzy match for key.
func (m *Matcher) lookup(key string, targets []*target, cutoff float64) (hit, bool) {
	for _, t := range targets {
		if row, ok := t.exact[key]; ok {
			return hit{target: t, row: row, method: MethodExact, score: 100}, true
		}
		if best, ok := fuzzy.ExtractOne(key, t.keys, m.scorer, cutoff); ok {
			return hit{target: t, row: best.Index, method: MethodFuzzy, score: best.Score}, true
		}
	}
	return hit{}, false
}
