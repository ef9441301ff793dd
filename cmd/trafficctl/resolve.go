// Trafficdb - Road Link Traffic Observation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trafficdb

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/trafficdb/internal/idcodec"
)

func newResolveCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME...",
		Short: "Resolve alias names to link tokens",
		Long: `Resolve each name and print a JSON array of [name, link] pairs in
argument order. link is the public link token, or null for unknown names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolutions, err := app.db.ResolveLinkAliases(cmd.Context(), args)
			if err != nil {
				return err
			}

			pairs := make([][2]any, len(resolutions))
			for i, r := range resolutions {
				pairs[i][0] = r.Name
				if r.Resolved() {
					pairs[i][1] = idcodec.Encode(*r.LinkUUID)
				}
			}

			out, err := json.MarshalIndent(pairs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
