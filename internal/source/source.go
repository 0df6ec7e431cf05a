// SPDX-License-Identifier: Apache-2.0

// Package source turns raw uploaded files into table collections.
package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// Source describes the raw input to the parsing pipeline.
type Source struct {
	// Content is the raw file content.
	Content []byte
	// Format is an optional hint such as "xlsx", "csv" or "yaml".
	Format string
	// ID names the source, usually its file name. It becomes the source
	// identifier reported on matches.
	ID string
}

// Parser extracts tables from one kind of file.
type Parser interface {
	CanHandle(source Source) bool
	Parse(ctx context.Context, source Source) (table.Collection, error)
	Name() string
}

// Hint returns the lowercased format hint, falling back to the extension of
// the source ID. It is empty when neither is present.
func Hint(src Source) string {
	if f := strings.TrimSpace(src.Format); f != "" {
		return strings.ToLower(strings.TrimPrefix(f, "."))
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(src.ID), "."))
}

// Empty is the collection returned when nothing usable could be parsed.
func Empty(src Source) table.Collection {
	return table.Workbook{Name: src.ID}
}
