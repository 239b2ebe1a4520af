// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command manage runs operator tasks against the YaMDb database: schema
// migrations and CSV seed imports.
//
//	manage migrate up
//	manage migrate down 1
//	manage migrate version
//	manage import-csv titles.csv titles
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// app carries what every subcommand shares.
type app struct {
	cfg *config.Tooling
	log *slog.Logger
}

func newRootCmd(application *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "manage",
		Short:         "YaMDb operator commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadTooling()
			if err != nil {
				return err
			}
			application.cfg = cfg
			return nil
		},
	}

	root.AddCommand(newMigrateCmd(application))
	root.AddCommand(newImportCmd(application))
	return root
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("app", constants.AppName), slog.String("process", "manage"))

	context, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(&app{log: log}).ExecuteContext(context); err != nil {
		log.Error("command_failed", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}
}
