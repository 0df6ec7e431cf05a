// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newColumnsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE...",
		Short: "List the columns of roster files with their standardized names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			colls, err := a.readFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			for i, path := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", path)
				for _, opt := range a.rules.Options(colls[i]) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", opt.Label)
				}
			}
			return nil
		},
	}
}
