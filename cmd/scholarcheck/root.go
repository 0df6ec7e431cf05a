// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scholarcheck/scholarcheck-mcp/internal/column"
	"github.com/scholarcheck/scholarcheck-mcp/internal/config"
	"github.com/scholarcheck/scholarcheck-mcp/internal/logging"
	"github.com/scholarcheck/scholarcheck-mcp/internal/matcher"
	"github.com/scholarcheck/scholarcheck-mcp/internal/source"
	"github.com/scholarcheck/scholarcheck-mcp/internal/source/parsers"
	"github.com/scholarcheck/scholarcheck-mcp/internal/source/postgres"
	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "scholarcheck",
		Short:         "Detect duplicate scholarship applicants across rosters",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newMatchCmd(opts), newColumnsCmd(opts), newServeCmd(opts))
	return cmd
}

// app bundles the collaborators every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	rules    *column.RuleSet
	matcher  *matcher.Matcher
	pipeline *source.Pipeline
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	rules, err := cfg.RuleSet()
	if err != nil {
		return nil, err
	}
	normalizer, err := cfg.Normalizer()
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		rules:  rules,
		matcher: matcher.New(
			matcher.WithRules(rules),
			matcher.WithNormalizer(normalizer),
			matcher.WithWorkers(cfg.Workers),
			matcher.WithLogger(logger),
		),
		pipeline: parsers.NewDefaultPipeline().WithLogger(logger),
	}, nil
}

// readFiles parses each file into one collection, in argument order.
func (a *app) readFiles(ctx context.Context, paths []string) (table.Merge, error) {
	colls := make(table.Merge, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		colls = append(colls, a.pipeline.Parse(ctx, source.Source{Content: content, ID: filepath.Base(path)}))
	}
	return colls, nil
}

// loadPostgres reads the named tables from the configured database.
func (a *app) loadPostgres(ctx context.Context, tables []string) (table.Collection, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	if a.cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("--pg-table needs postgres.url or SCHOLARCHECK_PG_URL")
	}
	a.logger.Info("loading database rosters",
		zap.String("url", logging.SanitizeConnectionString(a.cfg.Postgres.URL)),
		zap.Strings("tables", tables))

	pool, err := postgres.Connect(ctx, a.cfg.Postgres.URL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return postgres.LoadTables(ctx, pool, tables...)
}
