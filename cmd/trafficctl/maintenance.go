// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/trafficdb/internal/database"
)

func newMigrateCmd(app *cliApp) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema, apply pending migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := app.db.GetCurrentSchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schema version %d\n", version)
			if !history {
				return nil
			}

			applied, err := app.db.GetMigrationHistory(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range applied {
				fmt.Fprintf(out, "%4d  %s  %s\n", m.Version, m.AppliedAt.UTC().Format(time.RFC3339), m.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "also list every applied migration")
	return cmd
}

func newSeedCmd(app *cliApp) *cobra.Command {
	defaults := database.DefaultSeedOptions()

	var (
		opts    = defaults
		start   string
		minutes int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with generated links, observations and aliases",
		Long: `Drop every link, alias and observation, then generate a fresh data set.
Each link gets one observation per channel every 15 minutes across the window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			if minutes < 0 {
				return fmt.Errorf("--minutes must not be negative")
			}
			opts.Start = t.UTC()
			opts.Duration = time.Duration(minutes) * time.Minute

			if err := app.db.SeedTestData(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d links and %d aliases from %s over %d minutes\n",
				opts.Links, opts.Aliases, opts.Start.Format(time.RFC3339), minutes)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Links, "links", defaults.Links, "number of links to create")
	cmd.Flags().IntVar(&opts.Aliases, "aliases", defaults.Aliases, "number of aliases to create")
	cmd.Flags().StringVar(&start, "start", defaults.Start.Format(time.RFC3339), "first observation time (RFC3339)")
	cmd.Flags().IntVar(&minutes, "minutes", int(defaults.Duration/time.Minute), "observation window length in minutes")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", defaults.Seed, "random seed")
	return cmd
}

func newResetCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every link, alias and observation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.db.DropAllData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data dropped")
			return nil
		},
	}
}
