// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/trafficdb/internal/config"
	"github.com/tomtom215/trafficdb/internal/database"
	"github.com/tomtom215/trafficdb/internal/logging"
)

// cliApp holds state shared by every command of one invocation.
type cliApp struct {
	configPath string
	db         *database.DB
}

// newRootCmd builds a fresh command tree. Flags live on the returned
// commands, so separate invocations never share state.
func newRootCmd() (*cobra.Command, *cliApp) {
	app := &cliApp{}

	root := &cobra.Command{
		Use:           "trafficctl",
		Short:         "Manage a trafficdb database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd)
		},
	}
	root.PersistentFlags().StringVar(&app.configPath, "config", "",
		"config file (default: $CONFIG_PATH, config.yaml or /etc/trafficdb/config.yaml)")

	root.AddCommand(
		newMigrateCmd(app),
		newSeedCmd(app),
		newResetCmd(app),
		newExplainCmd(app),
		newResolveCmd(app),
	)
	return root, app
}

// open loads configuration and opens the database. Opening applies the
// schema and any pending migrations.
func (a *cliApp) open(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    "console",
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	a.db = db
	return nil
}

func (a *cliApp) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
