// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/scholarcheck/scholarcheck-mcp/internal/export"
	"github.com/scholarcheck/scholarcheck-mcp/internal/matcher"
	"github.com/scholarcheck/scholarcheck-mcp/internal/tool"
)

type matchOptions struct {
	client     []string
	databases  []string
	pgTables   []string
	clientCols []string
	dbCols     []string
	threshold  int
	out        string
}

func newMatchCmd(root *rootOptions) *cobra.Command {
	opts := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Mark each client applicant as duplicate, not found or skipped",
		Example: `  scholarcheck match --client applicants.xlsx --db 2023.xlsx --db 2024.csv \
    --client-col "Student Name" --client-col "Roll No" \
    --db-col "Applicant Name" --db-col "Application ID" --out results.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateColumns(opts.clientCols, opts.dbCols); err != nil {
				return err
			}
			if len(opts.databases) == 0 && len(opts.pgTables) == 0 {
				return fmt.Errorf("at least one --db file or --pg-table is required")
			}

			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			ctx := cmd.Context()

			client, err := a.readFiles(ctx, opts.client)
			if err != nil {
				return err
			}
			databases, err := a.readFiles(ctx, opts.databases)
			if err != nil {
				return err
			}
			pg, err := a.loadPostgres(ctx, opts.pgTables)
			if err != nil {
				return err
			}
			if pg != nil {
				databases = append(databases, pg)
			}

			threshold := a.cfg.FuzzyThreshold
			if cmd.Flags().Changed("threshold") {
				threshold = opts.threshold
			}

			res, err := a.matcher.Match(ctx, matcher.Request{
				Client:          client,
				ClientColumns:   opts.clientCols,
				Database:        databases,
				DatabaseColumns: opts.dbCols,
				Threshold:       threshold,
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), res)
			if res.Empty() {
				return nil
			}
			if opts.out == "-" {
				return export.WriteCSV(cmd.OutOrStdout(), res)
			}
			path, err := export.WriteFile(opts.out, res)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.client, "client", nil, "client roster file (xlsx, csv, yaml, json); repeatable")
	cmd.Flags().StringArrayVar(&opts.databases, "db", nil, "database roster file searched in order; repeatable")
	cmd.Flags().StringArrayVar(&opts.pgTables, "pg-table", nil, "PostgreSQL table searched after the --db files; repeatable")
	cmd.Flags().StringArrayVar(&opts.clientCols, "client-col", nil, "client column forming the match key (1 or 2)")
	cmd.Flags().StringArrayVar(&opts.dbCols, "db-col", nil, "database column used when headers do not standardize (1 or 2)")
	cmd.Flags().IntVar(&opts.threshold, "threshold", matcher.DefaultThreshold, "fuzzy similarity threshold 0-100 (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", export.DefaultFileName, "output file (.xlsx or .csv), or - for CSV on stdout")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("client-col")
	_ = cmd.MarkFlagRequired("db-col")
	return cmd
}

func validateColumns(client, database []string) error {
	if len(client) == 0 || len(database) == 0 {
		return fmt.Errorf("select 1 to %d client and database columns", tool.MaxColumns)
	}
	if len(client) > tool.MaxColumns || len(database) > tool.MaxColumns {
		return fmt.Errorf("%w: got %d client and %d database columns, at most %d each",
			tool.ErrTooManyColumns, len(client), len(database), tool.MaxColumns)
	}
	return nil
}

func printSummary(w io.Writer, res *matcher.Result) {
	if res.Empty() {
		fmt.Fprintln(w, "No results generated. Check that the client files contain the selected columns.")
		return
	}
	s := res.Summary
	fmt.Fprintf(w, "Matching process completed in %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Total client entries processed: %d\n", s.Total)
	fmt.Fprintf(w, "Potential duplicates found: %d\n", s.Duplicates)
	fmt.Fprintf(w, "Entries not found in database: %d\n", s.NotFound)
	fmt.Fprintf(w, "Entries skipped (empty data): %d\n", s.Skipped)
}
