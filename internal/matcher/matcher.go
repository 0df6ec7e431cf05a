// SPDX-License-Identifier: Apache-2.0

// Package matcher finds client roster records that already exist in one or
// more database rosters.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scholarcheck/scholarcheck-mcp/internal/column"
	"github.com/scholarcheck/scholarcheck-mcp/internal/fuzzy"
	"github.com/scholarcheck/scholarcheck-mcp/internal/normalize"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// DefaultThreshold is the fuzzy threshold used when callers have no preference.
const DefaultThreshold = 85

// ErrInvalidThreshold is returned for thresholds outside [0,100].
var ErrInvalidThreshold = errors.New("fuzzy threshold must be between 0 and 100")

// Request describes one matching run.
type Request struct {
	Client table.Collection
	// ClientColumns are the 1 or 2 client labels forming the composite key.
	ClientColumns []string
	Database      table.Collection
	// DatabaseColumns are used literally when standardized names do not
	// align a database table with the client selection.
	DatabaseColumns []string
	Threshold       int
}

// Matcher compares client records against database tables. It holds no
// per-run state and is safe for concurrent use.
type Matcher struct {
	rules      *column.RuleSet
	normalizer normalize.Normalizer
	scorer     fuzzy.Scorer
	workers    int
	logger     *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithRules sets the mapping rules used for column resolution.
func WithRules(rules *column.RuleSet) Option {
	return func(m *Matcher) {
		if rules != nil {
			m.rules = rules
		}
	}
}

// WithNormalizer sets the value normalizer used for composite keys.
func WithNormalizer(n normalize.Normalizer) Option {
	return func(m *Matcher) {
		m.normalizer = n
	}
}

// WithScorer replaces fuzzy.WRatio as the fuzzy similarity measure.
func WithScorer(s fuzzy.Scorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.scorer = s
		}
	}
}

// WithWorkers sets how many client records are matched concurrently.
// Values below 2 match sequentially.
func WithWorkers(n int) Option {
	return func(m *Matcher) {
		m.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Matcher with the default rules, lowercase normalization,
// WRatio scoring and sequential matching.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		rules:      column.Default(),
		normalizer: normalize.Default,
		scorer:     fuzzy.WRatio,
		workers:    1,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match produces one Row per record of every client table holding all
// selected client columns, in collection order and record order.
//
// Client tables missing a selected column are skipped without rows. Records
// with a blank composite key are marked StatusSkipped and never compared.
// Other records are compared against database tables in collection order;
// the first table with an exact or fuzzy (score >= Threshold) match wins.
//
// An empty selection on either side yields an empty Result. Errors are only
// returned for an out-of-range threshold or when ctx is done; cancellation is
// checked between records.
func (m *Matcher) Match(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := m.logger.With(zap.String("run_id", res.RunID))

	if req.Threshold < 0 || req.Threshold > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, req.Threshold)
	}
	if len(req.ClientColumns) == 0 || len(req.DatabaseColumns) == 0 {
		log.Warn("client or database columns not selected; nothing to match")
		return res, nil
	}

	log.Info("starting match",
		zap.Strings("client_columns", req.ClientColumns),
		zap.Strings("standardized_client_columns", m.standardized(req.ClientColumns)),
		zap.Strings("database_columns", req.DatabaseColumns),
		zap.Int("threshold", req.Threshold))

	targets := m.planTargets(req.Database, req.ClientColumns, req.DatabaseColumns, log)
	cutoff := float64(req.Threshold)

	for i, e := range table.Entries(req.Client) {
		t := e.Table
		if t == nil {
			continue
		}
		if missing := t.Missing(req.ClientColumns); len(missing) > 0 {
			log.Warn("client table is missing selected columns; skipping it",
				zap.Int("index", i),
				zap.String("source", e.Source),
				zap.String("table", e.SubSource),
				zap.Strings("missing", missing))
			continue
		}

		log.Info("processing client table",
			zap.Int("index", i),
			zap.String("table", e.SubSource),
			zap.Int("rows", t.Len()))

		rows, err := m.matchTable(ctx, t, req.ClientColumns, targets, cutoff, log)
		if err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, rows...)
	}

	if len(res.Rows) == 0 {
		log.Warn("no results generated; no client table had the selected columns or records")
	}
	res.Summary = summarize(res.Rows, time.Since(start))
	log.Info("match finished",
		zap.Int("total", res.Summary.Total),
		zap.Int("duplicates", res.Summary.Duplicates),
		zap.Int("not_found", res.Summary.NotFound),
		zap.Int("skipped", res.Summary.Skipped),
		zap.Duration("duration", res.Summary.Duration))
	return res, nil
}

func (m *Matcher) matchTable(ctx context.Context, t *table.Table, columns []string, targets []*target, cutoff float64, log *zap.Logger) ([]Row, error) {
	keys := compositeKeys(m.normalizer, t, columns)
	rows := make([]Row, len(keys))

	if m.workers < 2 {
		for i := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows[i] = m.matchRecord(t, i, keys[i], targets, cutoff, log)
		}
		return rows, nil
	}

	// Each record writes only its own slot, so output order is unchanged.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = m.matchRecord(t, i, keys[i], targets, cutoff, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (m *Matcher) matchRecord(t *table.Table, i int, key string, targets []*target, cutoff float64, log *zap.Logger) Row {
	row := Row{Record: t.Record(i), MatchedRow: -1}

	if blank(key) {
		log.Debug("skipping client row with empty match data", zap.Int("row", i))
		row.Status = StatusSkipped
		return row
	}

	h, ok := m.lookup(key, targets, cutoff)
	if !ok {
		row.Status = StatusNotFound
		return row
	}

	file, sheet := h.target.source, h.target.subSource
	row.Status = StatusDuplicate
	row.MatchedFile = &file
	row.MatchedSheet = &sheet
	row.Method = h.method
	row.Score = h.score
	row.MatchedRow = h.row
	log.Debug("match found",
		zap.Int("row", i),
		zap.String("file", file),
		zap.String("sheet", sheet),
		zap.String("method", string(h.method)),
		zap.Float64("score", h.score))
	return row
}

func (m *Matcher) standardized(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = m.rules.Standardize(c)
	}
	return out
}
