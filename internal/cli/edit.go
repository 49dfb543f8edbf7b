// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/mentionkit/internal/config"
	"github.com/jeranaias/mentionkit/internal/directory"
	"github.com/jeranaias/mentionkit/internal/logging"
	"github.com/jeranaias/mentionkit/internal/mention"
	"github.com/jeranaias/mentionkit/internal/render"
	"github.com/jeranaias/mentionkit/internal/storage"
	"github.com/jeranaias/mentionkit/internal/suggest"
	"github.com/jeranaias/mentionkit/internal/telemetry"
	"github.com/jeranaias/mentionkit/internal/ui/composer"
	"github.com/jeranaias/mentionkit/internal/ui/styles"
)

// =============================================================================
// EDIT SESSION
// =============================================================================

// sessionOptions selects what an edit session opens.
type sessionOptions struct {
	DocRef string
	Theme  *styles.Theme
	Logger zerolog.Logger
}

// session wires the directory, suggestion sources, draft store and metrics
// into a composer.
type session struct {
	composer *composer.Model
	dir      *directory.Directory
	watcher  *directory.SeedWatcher
	sources  *suggest.Sources
	store    *storage.DocumentStore
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
}

func newSession(ctx context.Context, cfg *config.Config, opts sessionOptions) (_ *session, err error) {
	logger := opts.Logger
	s := &session{registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	s.registry.MustRegister(collectors.NewGoCollector())
	s.metrics = telemetry.NewMetrics(s.registry)

	s.dir, err = directory.Open(directory.Config{
		DatabasePath: cfg.Directory.Path,
		Logger:       logging.Component(logger, "directory"),
	})
	if err != nil {
		return nil, err
	}
	if seed := cfg.Directory.SeedFile; seed != "" {
		if err := s.dir.ImportFile(ctx, seed); err != nil {
			// Keep editing with what the directory already holds.
			logger.Warn().Err(err).Str("seed", seed).Msg("seed import failed")
		}
		if cfg.Directory.WatchSeed {
			if s.watcher, err = directory.NewSeedWatcher(s.dir, seed, directory.DefaultDebounce); err != nil {
				return nil, fmt.Errorf("watching seed: %w", err)
			}
			if err = s.watcher.Start(); err != nil {
				return nil, fmt.Errorf("watching seed: %w", err)
			}
		}
	}

	lookup := suggest.Throttle(s.dir, cfg.Directory.RatePerSec, cfg.Directory.Burst).WithRecorder(s.metrics)
	s.sources = suggest.NewSources(lookup, cfg.Mention.FetchLimit)

	if s.store, err = storage.NewDocumentStoreWithDir(cfg.Storage.Dir); err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	s.store.Recorder = s.metrics

	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	s.composer = composer.New(composer.Options{
		Theme:        theme,
		Store:        s.store,
		Previewer:    render.NewPreviewer(theme.GlamourStyle()),
		EditorMode:   cfg.Editor.Mode,
		EditorTheme:  cfg.Editor.Theme,
		PreviewWidth: cfg.Editor.PreviewWidth,
		Logger:       logger,
		Mention:      mentionOptions(cfg, logging.Component(logger, "mention"), s.metrics),
	})

	partnerDelimiters, err := registerListeners(s.composer, cfg.Listeners, s.sources)
	if err != nil {
		return nil, err
	}

	if opts.DocRef != "" {
		doc, err := resolveDocument(s.store, opts.DocRef)
		if err != nil {
			return nil, err
		}
		// People already mentioned in the draft are suggested first.
		var mentioned mention.Groups
		for _, d := range partnerDelimiters {
			if sel := doc.Selections[d]; len(sel) > 0 {
				mentioned = append(mentioned, sel)
			}
		}
		s.sources.Partners.SetPrefetched(mentioned)
		s.composer.Open(doc)
	}
	return s, nil
}

// registerListeners registers each configured mention kind in order and
// returns the delimiters served by the partner source.
func registerListeners(c *composer.Model, listeners []config.ListenerConfig, sources *suggest.Sources) ([]string, error) {
	var partners []string
	for _, l := range listeners {
		fetch, err := sources.Fetch(l.Source)
		if err != nil {
			return nil, err
		}
		if err := c.Register(l.Delimiter, fetch, l.Model, l.LinkClass); err != nil {
			return nil, fmt.Errorf("listener %q: %w", l.Delimiter, err)
		}
		if l.Source == suggest.SourcePartners {
			partners = append(partners, l.Delimiter)
		}
	}
	return partners, nil
}

// Close releases everything the session opened. It is safe on a partially
// built session.
func (s *session) Close() error {
	var errs []error
	if s.composer != nil {
		s.composer.Manager().Close()
	}
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	if s.dir != nil {
		errs = append(errs, s.dir.Close())
	}
	return errors.Join(errs...)
}

// =============================================================================
// EDIT COMMAND
// =============================================================================

func newEditCommand(app *App) *cobra.Command {
	var (
		docRef      string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Compose a markdown draft with inline mentions",
		Long: `Open the composer.

Type a delimiter such as "@" followed by a name to get suggestions from the
record directory. Up/Down move through them, Enter binds the highlighted
record and Escape closes the list. Deleting into a bound mention unbinds it.

Keys: ctrl+s save, ctrl+p preview, ctrl+r highlighted source,
ctrl+y copy the markdown with links, ctrl+c quit.

Logs go to log.file while the composer owns the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RequiresTTY("edit"); err != nil {
				return err
			}
			cfg := app.cfg
			if metricsAddr != "" {
				cfg.Metrics.Addr = metricsAddr
			}

			logger, closer, err := logging.OpenFile(cfg.Log.File, logging.Config{
				Level:   cfg.Log.Level,
				JSON:    cfg.Log.JSON,
				NoColor: true,
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := newSession(ctx, cfg, sessionOptions{
				DocRef: docRef,
				Theme:  styles.NewThemeFor(os.Stdout, GetColorProfile(), termenv.HasDarkBackground()),
				Logger: logger,
			})
			if err != nil {
				return err
			}
			defer s.Close()

			if cfg.Metrics.Addr != "" {
				go func() {
					if err := telemetry.Serve(ctx, cfg.Metrics.Addr, s.registry, logger); err != nil {
						logger.Error().Err(err).Msg("metrics server stopped")
					}
				}()
			}

			return runComposer(ctx, s.composer)
		},
	}
	cmd.Flags().StringVar(&docRef, "doc", "", "continue a saved draft (ID, prefix or list position)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func runComposer(ctx context.Context, c *composer.Model) error {
	p := tea.NewProgram(c, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
