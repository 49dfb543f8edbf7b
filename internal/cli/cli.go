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
	"github.com/jeranaias/mentionkit/internal/directory"
	"github.com/jeranaias/mentionkit/internal/logging"
	"github.com/jeranaias/mentionkit/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APP
// =============================================================================

// App holds the state shared by all commands of one invocation.
type App struct {
	// Global flags
	ConfigPath string
	LogLevel   string
	JSON       bool

	// LoadConfig resolves the configuration. A non-nil config with an error
	// means the file could not be read and defaults are in use.
	LoadConfig func(path string) (*config.Config, error)

	cfg    *config.Config
	logger zerolog.Logger
}

// NewApp creates an App reading configuration from disk.
func NewApp() *App {
	return &App{
		LoadConfig: loadConfig,
		logger:     zerolog.Nop(),
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// setup loads configuration and builds the stderr logger.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := a.LoadConfig(a.ConfigPath)
	if cfg == nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if a.LogLevel != "" {
		cfg.Log.Level = a.LogLevel
	}
	a.cfg = cfg

	a.logger = logging.New(logging.Config{
		Level:   cfg.Log.Level,
		JSON:    cfg.Log.JSON,
		Output:  cmd.ErrOrStderr(),
		NoColor: !ColorsEnabled(),
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("using default configuration")
	}
	return nil
}

func (a *App) openDirectory() (*directory.Directory, error) {
	return directory.Open(directory.Config{
		DatabasePath: a.cfg.Directory.Path,
		Logger:       logging.Component(a.logger, "directory"),
	})
}

func (a *App) openStore() (*storage.DocumentStore, error) {
	store, err := storage.NewDocumentStoreWithDir(a.cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	return store, nil
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "mentionkit",
		Short: "Inline mentions for markdown drafts",
		Long: `mentionkit detects "@name" style mentions while you type, suggests
matching records from a local directory and rewrites bound mentions into
record links when the draft is saved.

COMMON WORKFLOWS:
  Load records:   mentionkit directory seed people.toml
  Write a draft:  mentionkit edit
  Export it:      mentionkit docs list  ->  mentionkit docs show <id>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return app.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "config file (default ~/.mentionkit/config.toml)")
	root.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&app.JSON, "json", false, "print machine-readable JSON")

	root.AddCommand(
		newEditCommand(app),
		newRewriteCommand(app),
		newDirectoryCommand(app),
		newDocsCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCommand(NewApp())
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"version":    Version,
					"commit":     GitCommit,
					"build_date": BuildDate,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mentionkit %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}
