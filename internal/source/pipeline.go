// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// ErrUnsupportedFormat is returned when no registered parser accepts a source.
var ErrUnsupportedFormat = errors.New("unsupported source format")

type Pipeline struct {
	parsers []Parser
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline with the provided parsers. Parsers are
// tried in order, so more specific ones should come first.
func NewPipeline(parsers ...Parser) *Pipeline {
	return &Pipeline{
		parsers: parsers,
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the logger and returns the pipeline.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// RunResult is the output of a successful parse.
type RunResult struct {
	Collection table.Collection
	ParserUsed string
	TableCount int
	RowCount   int
}

// Parse returns the tables of source. Failures are logged and reported as an
// empty collection, which callers treat as "no usable tables".
func (p *Pipeline) Parse(ctx context.Context, src Source) table.Collection {
	result, err := p.ParseWithMeta(ctx, src)
	if err != nil {
		p.logger.Error("failed to parse source", zap.String("source", src.ID), zap.Error(err))
		return Empty(src)
	}
	return result.Collection
}

// ParseWithMeta parses source and reports which parser was used. Unlike
// Parse it returns errors to the caller.
func (p *Pipeline) ParseWithMeta(ctx context.Context, src Source) (RunResult, error) {
	parser, err := p.selectParser(src)
	if err != nil {
		return RunResult{}, err
	}

	coll, err := parser.Parse(ctx, src)
	if err != nil {
		return RunResult{}, fmt.Errorf("parser %q failed: %w", parser.Name(), err)
	}

	result := RunResult{Collection: coll, ParserUsed: parser.Name()}
	for _, e := range table.Entries(coll) {
		result.TableCount++
		result.RowCount += e.Table.Len()
	}
	if result.TableCount == 0 {
		p.logger.Warn("no tables found in source", zap.String("source", src.ID), zap.String("parser", parser.Name()))
	} else {
		p.logger.Info("parsed source",
			zap.String("source", src.ID),
			zap.String("parser", parser.Name()),
			zap.Int("tables", result.TableCount),
			zap.Int("rows", result.RowCount))
	}
	return result, nil
}

// selectParser returns the first registered parser that can handle the given source.
func (p *Pipeline) selectParser(src Source) (Parser, error) {
	for _, parser := range p.parsers {
		if parser.CanHandle(src) {
			return parser, nil
		}
	}
	return nil, fmt.Errorf("%w: no parser found for source %q (format hint: %q)", ErrUnsupportedFormat, src.ID, src.Format)
}

// RegisteredParsers returns the names of all currently registered parsers.
func (p *Pipeline) RegisteredParsers() []string {
	names := make([]string, len(p.parsers))
	for i, parser := range p.parsers {
		names[i] = parser.Name()
	}
	return names
}
