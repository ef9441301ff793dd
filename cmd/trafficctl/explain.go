// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/trafficdb/internal/models"
)

var errNoData = errors.New("nothing to explain: run seed first")

func newExplainCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print EXPLAIN ANALYZE plans for the hot queries",
	}
	cmd.AddCommand(newExplainObservationsCmd(app), newExplainAliasesCmd(app))
	return cmd
}

func newExplainObservationsCmd(app *cliApp) *cobra.Command {
	var (
		links   int
		channel string
		minutes int
	)

	cmd := &cobra.Command{
		Use:   "observations",
		Short: "Plan the time-range query over a sample of links",
		Long: `Plan the observation time-range query for the first --links links.
The window starts at the earliest stored observation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := models.ParseObservationType(channel)
			if err != nil {
				return err
			}
			if links < 1 || minutes < 1 {
				return fmt.Errorf("--links and --minutes must be positive")
			}

			ctx := cmd.Context()
			ids, err := app.db.SampleLinkIDs(ctx, links)
			if err != nil {
				return err
			}
			dr, err := app.db.ObservationDateRange(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 || dr.Empty() {
				return errNoData
			}

			start := *dr.Min
			plan, err := app.db.ExplainObservations(ctx, ids, typ, start, start.Add(time.Duration(minutes)*time.Minute))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	cmd.Flags().IntVar(&links, "links", 10, "number of links in the query")
	cmd.Flags().StringVar(&channel, "type", "speed", "observation channel: speed, flow or occupancy")
	cmd.Flags().IntVar(&minutes, "minutes", 24*60, "window length in minutes")
	return cmd
}

func newExplainAliasesCmd(app *cliApp) *cobra.Command {
	var names int

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Plan the alias resolver join for a random sample of names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if names < 1 {
				return fmt.Errorf("--names must be positive")
			}

			ctx := cmd.Context()
			sample, err := app.db.SampleAliasNames(ctx, names)
			if err != nil {
				return err
			}
			if len(sample) == 0 {
				return errNoData
			}

			plan, err := app.db.ExplainAliasResolution(ctx, sample)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	cmd.Flags().IntVar(&names, "names", 20, "number of alias names to resolve")
	return cmd
}
