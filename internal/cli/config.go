// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/mentionkit/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration",
		Long: `Inspect and edit the mentionkit configuration.

Keys use dot notation matching the TOML sections, e.g. mention.min_length or
links.base_url. Run 'mentionkit config keys' for the full list. Mention kinds
are edited as [[listener]] tables in the file itself.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), app.cfg)
				}
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(app.cfg)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := app.cfg.Get(args[0])
				if err != nil {
					return err
				}
				if app.JSON {
					return writeJSON(cmd.OutOrStdout(), v)
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change a configuration value and save it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				updated := app.cfg.Clone()
				if err := updated.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := updated.Validate(); err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
				path, err := app.configFile()
				if err != nil {
					return err
				}
				if err := saveConfig(updated, path); err != nil {
					return err
				}
				app.cfg = updated
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (saved to %s)\n", args[0], args[1], path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List configuration keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.GetAllKeys(), "\n"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := app.configFile()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)
	return cmd
}

// configFile returns --config or the default TOML path.
func (a *App) configFile() (string, error) {
	if a.ConfigPath != "" {
		return a.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func saveConfig(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
