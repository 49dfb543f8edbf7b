// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long a seed file must stay quiet before re-import.
const DefaultDebounce = 250 * time.Millisecond

// =============================================================================
// SEED WATCHER
// =============================================================================

// SeedWatcher re-imports a seed file into a directory whenever it changes.
//
// The parent directory is watched rather than the file so that editors that
// save by rename keep triggering events.
type SeedWatcher struct {
	dir      *Directory
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	pending time.Time // last change, zero when nothing is pending

	// OnImport, if set, is called after each re-import attempt.
	OnImport func(error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSeedWatcher creates a watcher for the seed at path.
func NewSeedWatcher(dir *Directory, path string, debounce time.Duration) (*SeedWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &SeedWatcher{
		dir:      dir,
		path:     abs,
		watcher:  w,
		debounce: debounce,
		logger:   dir.logger.With().Str("seed", abs).Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching. It returns once the watch is registered.
func (sw *SeedWatcher) Start() error {
	if err := sw.watcher.Add(filepath.Dir(sw.path)); err != nil {
		return err
	}

	sw.wg.Add(2)
	go sw.processEvents()
	go sw.processPending()
	return nil
}

func (sw *SeedWatcher) processEvents() {
	defer sw.wg.Done()
	for {
		select {
		case <-sw.ctx.Done():
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != sw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				sw.mu.Lock()
				sw.pending = time.Now()
				sw.mu.Unlock()
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn().Err(err).Msg("seed watch error")
		}
	}
}

func (sw *SeedWatcher) processPending() {
	defer sw.wg.Done()
	tick := sw.debounce / 2
	if tick > 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-sw.ctx.Done():
			return

		case <-ticker.C:
			sw.mu.Lock()
			ready := !sw.pending.IsZero() && time.Since(sw.pending) >= sw.debounce
			if ready {
				sw.pending = time.Time{}
			}
			sw.mu.Unlock()

			if ready {
				sw.reimport()
			}
		}
	}
}

func (sw *SeedWatcher) reimport() {
	err := sw.dir.ImportFile(sw.ctx, sw.path)
	if err != nil {
		// Keep the previous contents; the next save gets another chance.
		sw.logger.Error().Err(err).Msg("seed re-import failed")
	}
	if sw.OnImport != nil {
		sw.OnImport(err)
	}
}

// Close stops watching and waits for the goroutines to exit.
func (sw *SeedWatcher) Close() error {
	sw.cancel()
	err := sw.watcher.Close()
	sw.wg.Wait()
	return err
}
