// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/importer"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

func newImportCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-csv <file> <model>",
		Short: "Import a CSV file into the table behind model",
		Long: fmt.Sprintf(`Import a CSV file into the table behind model.

Relative file names resolve under CSV_DIR. The header row names the columns.
Models: %s`, strings.Join(importer.ModelNames(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := postgres.NewPool(cmd.Context(), application.cfg.DatabaseURL, application.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			rows, err := importer.New(pool, application.cfg.CSVDir, application.log).Import(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s\n", rows, args[1])
			return nil
		},
	}
}
