// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scholarcheck/scholarcheck-mcp/internal/tool"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var pgTables []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the duplicate detection tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			ctx := cmd.Context()

			database, err := a.loadPostgres(ctx, pgTables)
			if err != nil {
				return err
			}

			threshold := a.cfg.FuzzyThreshold
			svc := tool.NewService(tool.Deps{
				Matcher:   a.matcher,
				Rules:     a.rules,
				Pipeline:  a.pipeline,
				Threshold: &threshold,
				Database:  database,
				Logger:    a.logger,
			})

			a.logger.Info("serving MCP over stdio", zap.String("version", Version))
			return tool.NewServer(Version, svc).Run(ctx, &mcp.StdioTransport{})
		},
	}
	cmd.Flags().StringArrayVar(&pgTables, "pg-table", nil, "PostgreSQL table searched by every find_duplicates call; repeatable")
	return cmd
}
