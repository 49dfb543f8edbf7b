// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/mentionkit/internal/directory"
	"github.com/jeranaias/mentionkit/internal/mention"
	"github.com/jeranaias/mentionkit/internal/suggest"
)

func newDirectoryCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "directory",
		Aliases: []string{"dir"},
		Short:   "Manage the record directory behind suggestions",
		Long: `Manage the local directory of partners and channels that mention
suggestions are drawn from.

A seed file is TOML with [[partner]] and [[channel]] tables:

  [[partner]]
  id = 7
  name = "Bob"
  email = "bob@example.com"

  [[channel]]
  id = 3
  name = "general"
  public = "public"

Importing replaces the directory contents.`,
	}

	cmd.AddCommand(
		newDirectorySeedCommand(app),
		newDirectorySearchCommand(app),
		newDirectoryStatsCommand(app),
	)
	return cmd
}

func newDirectorySeedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Import a seed file (default directory.seed_file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.cfg.Directory.SeedFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no seed file given and directory.seed_file is not set")
			}

			dir, err := app.openDirectory()
			if err != nil {
				return err
			}
			defer dir.Close()

			if err := dir.ImportFile(cmd.Context(), path); err != nil {
				return err
			}
			stats, err := dir.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats, app.JSON)
		},
	}
}

func newDirectorySearchCommand(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <partners|channels> [query]",
		Short: "Search the directory the way suggestions do",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			query := ""
			if len(args) == 2 {
				query = args[1]
			}

			dir, err := app.openDirectory()
			if err != nil {
				return err
			}
			defer dir.Close()

			var results []mention.Suggestion
			switch kind {
			case suggest.SourcePartners:
				results, err = dir.SearchPartners(cmd.Context(), query, limit)
			case suggest.SourceChannels:
				results, err = dir.SearchChannels(cmd.Context(), query, limit)
			default:
				return fmt.Errorf("unknown record kind %q (want partners or channels)", kind)
			}
			if err != nil {
				return err
			}

			if app.JSON {
				if results == nil {
					results = []mention.Suggestion{}
				}
				return writeJSON(cmd.OutOrStdout(), results)
			}
			printSuggestions(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results (0 = all)")
	return cmd
}

func newDirectoryStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts and the last import time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.openDirectory()
			if err != nil {
				return err
			}
			defer dir.Close()

			stats, err := dir.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats, app.JSON)
		},
	}
}

func printSuggestions(out io.Writer, results []mention.Suggestion) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No matching records.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDETAIL")
	for _, s := range results {
		detail := s.Email
		if detail == "" {
			detail = s.Public
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, detail)
	}
	w.Flush()
}

func printStats(out io.Writer, stats directory.Stats, asJSON bool) error {
	last := "never"
	if !stats.LastImport.IsZero() {
		last = stats.LastImport.Local().Format(time.DateTime)
	}
	if asJSON {
		return writeJSON(out, map[string]any{
			"partners":    stats.Partners,
			"channels":    stats.Channels,
			"last_import": stats.LastImport,
		})
	}
	fmt.Fprintf(out, "Partners:    %d\nChannels:    %d\nLast import: %s\n", stats.Partners, stats.Channels, last)
	return nil
}
