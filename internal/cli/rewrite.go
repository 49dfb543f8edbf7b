// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/mentionkit/internal/config"
	"github.com/jeranaias/mentionkit/internal/mention"
)

// textHost is a mention.Host over a plain string, for rewriting without an
// editor.
type textHost struct {
	text   string
	cursor int
}

func (h *textHost) Text() string { return h.text }

func (h *textHost) SetText(text string) {
	h.text = text
	h.cursor = len(text)
}

func (h *textHost) SelectionOffsets() (start, end int) { return h.cursor, h.cursor }

func (h *textHost) SetSelectionOffsets(start, _ int) { h.cursor = start }

func noFetch(context.Context, string) (mention.Groups, error) { return nil, nil }

// mentionOptions maps configuration onto manager options.
func mentionOptions(cfg *config.Config, logger zerolog.Logger, rec mention.Recorder) []mention.Option {
	opts := []mention.Option{
		mention.WithMinLength(cfg.Mention.MinLength),
		mention.WithTypingSpeed(cfg.TypingSpeed()),
		mention.WithBaseURL(cfg.Links.BaseURL),
		mention.WithDiscardStale(cfg.Mention.DiscardStale),
		mention.WithLogger(logger),
	}
	if rec != nil {
		opts = append(opts, mention.WithRecorder(rec))
	}
	return opts
}

// rewriteText rewrites the mentions of text bound in selections.
// Selections for delimiters that are not configured are an error.
func rewriteText(cfg *config.Config, text string, selections map[string][]mention.Suggestion) (string, error) {
	m := mention.NewManager(&textHost{text: text}, mentionOptions(cfg, zerolog.Nop(), nil)...)
	defer m.Close()

	for _, l := range cfg.Listeners {
		if err := m.Register(l.Delimiter, noFetch, l.Model, l.LinkClass); err != nil {
			return "", err
		}
	}
	for delimiter, sel := range selections {
		if err := m.SetSelection(delimiter, sel); err != nil {
			return "", fmt.Errorf("selection for %q: %w", delimiter, err)
		}
	}
	return m.RewriteLinks(text), nil
}

func newRewriteCommand(app *App) *cobra.Command {
	var (
		selectionsPath string
		docRef         string
	)
	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Rewrite bound mentions into record links",
		Long: `Rewrite the mentions of a text into record links.

The text is read from FILE or stdin, and the bound records from a JSON file
mapping each delimiter to its suggestions in text order:

  {"@": [{"id": 7, "name": "Bob"}]}

With --doc the raw text and selections of a saved draft are used instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				text       string
				selections map[string][]mention.Suggestion
			)

			if docRef != "" {
				store, err := app.openStore()
				if err != nil {
					return err
				}
				doc, err := resolveDocument(store, docRef)
				if err != nil {
					return err
				}
				text, selections = doc.Raw, doc.Selections
			} else {
				if selectionsPath == "" {
					return fmt.Errorf("--selections is required without --doc")
				}
				data, err := os.ReadFile(selectionsPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &selections); err != nil {
					return fmt.Errorf("parsing %s: %w", selectionsPath, err)
				}
				text, err = readInput(cmd, args)
				if err != nil {
					return err
				}
			}

			out, err := rewriteText(app.cfg, text, selections)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&selectionsPath, "selections", "s", "", "JSON file of bound records per delimiter")
	cmd.Flags().StringVar(&docRef, "doc", "", "rewrite a saved draft")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		return string(data), err
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	return string(data), err
}
