// SPDX-License-Identifier: Apache-2.0

// Package tool exposes duplicate detection as MCP tools.
package tool

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scholarcheck/scholarcheck-mcp/internal/column"
	"github.com/scholarcheck/scholarcheck-mcp/internal/matcher"
	"github.com/scholarcheck/scholarcheck-mcp/internal/source"
	"github.com/scholarcheck/scholarcheck-mcp/internal/source/parsers"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// MaxColumns is the largest column selection accepted per side.
const MaxColumns = 2

// ErrTooManyColumns is returned when more than MaxColumns are selected.
var ErrTooManyColumns = errors.New("too many columns selected")

// Service holds the collaborators shared by the tool handlers.
type Service struct {
	matcher   *matcher.Matcher
	rules     *column.RuleSet
	pipeline  *source.Pipeline
	threshold int
	database  table.Collection
	logger    *zap.Logger
}

// Deps configures a Service. Zero fields fall back to defaults.
type Deps struct {
	Matcher  *matcher.Matcher
	Rules    *column.RuleSet
	Pipeline *source.Pipeline
	// Threshold is used when a call does not pass one; nil means
	// matcher.DefaultThreshold.
	Threshold *int
	// Database is searched after any database sources passed in a call,
	// e.g. tables loaded from PostgreSQL at startup.
	Database table.Collection
	Logger   *zap.Logger
}

func NewService(deps Deps) *Service {
	s := &Service{
		matcher:   deps.Matcher,
		rules:     deps.Rules,
		pipeline:  deps.Pipeline,
		threshold: matcher.DefaultThreshold,
		database:  deps.Database,
		logger:    deps.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.rules == nil {
		s.rules = column.Default()
	}
	if s.matcher == nil {
		s.matcher = matcher.New(matcher.WithRules(s.rules), matcher.WithLogger(s.logger))
	}
	if s.pipeline == nil {
		s.pipeline = parsers.NewDefaultPipeline().WithLogger(s.logger)
	}
	if deps.Threshold != nil {
		s.threshold = *deps.Threshold
	}
	return s
}

// InputSource is one uploaded roster file.
type InputSource struct {
	Content string `json:"content"`
	// Encoding is "base64" for binary content such as xlsx workbooks.
	Encoding string `json:"encoding,omitempty"`
	Format   string `json:"format,omitempty"`
	SourceID string `json:"source_id,omitempty"`
}

var sourceSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"content"},
	"properties": map[string]interface{}{
		"content": map[string]interface{}{
			"type":        "string",
			"description": "Raw file content. Binary formats (xlsx) must be base64 encoded and flagged with encoding=base64.",
		},
		"encoding": map[string]interface{}{
			"type":        "string",
			"description": "Content encoding. Omit for plain text.",
			"enum":        []string{"", "base64"},
		},
		"format": map[string]interface{}{
			"type":        "string",
			"description": "Format hint. One of: xlsx, csv, tsv, yaml, json. If omitted, the source_id extension or content sniffing is used.",
			"enum":        []string{"xlsx", "xlsm", "csv", "tsv", "yaml", "yml", "json"},
		},
		"source_id": map[string]interface{}{
			"type":        "string",
			"description": "File name reported as matched_file for duplicates found in this source.",
		},
	},
}

func (in InputSource) source() (source.Source, error) {
	id := in.SourceID
	if id == "" {
		id = "unknown"
	}
	src := source.Source{Content: []byte(in.Content), Format: in.Format, ID: id}
	switch in.Encoding {
	case "":
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(in.Content)
		if err != nil {
			return src, fmt.Errorf("source %q: invalid base64 content: %w", id, err)
		}
		src.Content = raw
	default:
		return src, fmt.Errorf("source %q: unknown encoding %q", id, in.Encoding)
	}
	return src, nil
}

// load parses in leniently: failures become an empty collection plus a warning.
func (s *Service) load(ctx context.Context, in InputSource) (table.Collection, string) {
	src, err := in.source()
	if err != nil {
		s.logger.Warn("failed to decode source", zap.Error(err))
		return source.Empty(src), err.Error()
	}
	res, err := s.pipeline.ParseWithMeta(ctx, src)
	if err != nil {
		s.logger.Warn("failed to parse source", zap.String("source", src.ID), zap.Error(err))
		return source.Empty(src), fmt.Sprintf("source %q: %v", src.ID, err)
	}
	if res.TableCount == 0 {
		return res.Collection, fmt.Sprintf("source %q: no tables found", src.ID)
	}
	return res.Collection, ""
}
