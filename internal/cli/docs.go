// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/mentionkit/internal/render"
	"github.com/jeranaias/mentionkit/internal/storage"
	"github.com/jeranaias/mentionkit/internal/ui/styles"
)

func newDocsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"doc", "documents"},
		Short:   "Manage saved drafts",
		Long: `Manage drafts saved from the composer.

A draft can be referred to by its full ID, a unique ID prefix as printed by
'docs list', or its 1-based position in that list.`,
	}

	cmd.AddCommand(
		newDocsListCommand(app),
		newDocsShowCommand(app),
		newDocsRenderCommand(app),
		newDocsDeleteCommand(app),
	)
	return cmd
}

func newDocsListCommand(app *App) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			metas, err := store.Search(query)
			if err != nil {
				return err
			}
			if app.JSON {
				if metas == nil {
					metas = []storage.DocumentMeta{}
				}
				return writeJSON(cmd.OutOrStdout(), metas)
			}
			fmt.Fprint(cmd.OutOrStdout(), storage.FormatDocumentList(metas))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only drafts whose title or text matches")
	return cmd
}

func newDocsShowCommand(app *App) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <doc>",
		Short: "Print the committed markdown of a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			doc, err := resolveDocument(store, args[0])
			if err != nil {
				return err
			}

			switch {
			case app.JSON:
				data, err := doc.ExportJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case raw:
				fmt.Fprintln(cmd.OutOrStdout(), doc.Raw)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), doc.ExportMarkdown())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the text as typed, without links")
	return cmd
}

func newDocsRenderCommand(app *App) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "render <doc>",
		Short: "Render a draft as formatted markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			doc, err := resolveDocument(store, args[0])
			if err != nil {
				return err
			}

			if width <= 0 {
				width = min(GetTerminalWidth(), app.cfg.Editor.PreviewWidth)
			}
			style := render.StyleNoTTY
			if ColorsEnabled() {
				style = styles.NewTheme().GlamourStyle()
			}
			out, err := render.NewPreviewer(style).Render(doc.ExportMarkdown(), width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "wrap width (default terminal width, capped by editor.preview_width)")
	return cmd
}

func newDocsDeleteCommand(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "delete [doc]",
		Short: "Delete a draft",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			if all {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All drafts deleted.")
				return nil
			}

			doc, err := resolveDocument(store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(doc.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", shortID(doc.ID), doc.Title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every draft")
	return cmd
}

// resolveDocument loads a draft by full ID, unique ID prefix or 1-based list
// position.
func resolveDocument(store *storage.DocumentStore, ref string) (*storage.StoredDocument, error) {
	if doc, err := store.Load(ref); err == nil {
		return doc, nil
	}

	metas, err := store.List()
	if err != nil {
		return nil, err
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(metas) {
		return store.LoadByIndex(n - 1)
	}

	var match string
	for _, m := range metas {
		if strings.HasPrefix(m.ID, ref) {
			if match != "" {
				return nil, fmt.Errorf("draft %q is ambiguous", ref)
			}
			match = m.ID
		}
	}
	if match == "" {
		return nil, fmt.Errorf("draft %q: %w", ref, storage.ErrDocumentNotFound)
	}
	return store.Load(match)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
