// SPDX-License-Identifier: Apache-2.0

// Package postgres loads roster tables from a PostgreSQL database so they
// can be searched alongside uploaded files.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// SourceName is the source identifier reported for rows found in the database.
const SourceName = "postgres"

// Querier runs a query. *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// TableQuery returns a query selecting every row of the named table. The
// name may be schema qualified.
func TableQuery(name string) string {
	return "SELECT * FROM " + pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// LoadTables reads each named table into one workbook, one sheet per table.
func LoadTables(ctx context.Context, q Querier, names ...string) (table.Workbook, error) {
	wb := table.Workbook{Name: SourceName}
	for _, name := range names {
		t, err := Load(ctx, q, name, TableQuery(name))
		if err != nil {
			return table.Workbook{}, err
		}
		wb.Sheets = append(wb.Sheets, t)
	}
	return wb, nil
}

// Load runs query and returns its result as a table labelled label.
func Load(ctx context.Context, q Querier, label, query string, args ...any) (*table.Table, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query for %q: %w", label, err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	t := table.New(label, table.HeaderLabels(columns))
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make([]table.Value, len(values))
		for i, v := range values {
			row[i] = convert(v)
		}
		t.Append(row...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return t, nil
}

// convert maps a decoded pgx value to a table value.
func convert(v any) table.Value {
	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid || x.NaN {
			return table.Null()
		}
		if x.Exp == 0 && x.Int != nil && x.Int.IsInt64() {
			return table.Int(x.Int.Int64())
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return table.Null()
		}
		return table.Number(f.Float64)
	case [16]byte:
		return table.String(uuid.UUID(x).String())
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return table.String(x.Format(time.DateOnly))
		}
		return table.String(x.Format(time.RFC3339))
	default:
		return table.FromAny(v)
	}
}
