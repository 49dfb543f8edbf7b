// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Fetch outcomes used as the status label.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// =============================================================================
// METRICS
// =============================================================================

// Metrics holds all Prometheus metrics for the mention engine.
// A nil *Metrics records nothing.
type Metrics struct {
	FetchesTotal        *prometheus.CounterVec
	FetchSeconds        *prometheus.HistogramVec
	SuggestionsShown    prometheus.Histogram
	StaleDroppedTotal   *prometheus.CounterVec
	MentionsInserted    *prometheus.CounterVec
	MentionsRemoved     *prometheus.CounterVec
	DirectoryLookups    *prometheus.CounterVec
	DirectoryThrottled  prometheus.Counter
	DocumentsSavedTotal prometheus.Counter
}

// NewMetrics creates and registers the mention metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentionkit_fetches_total",
				Help: "Suggestion fetches by delimiter and outcome",
			},
			[]string{"delimiter", "status"},
		),
		FetchSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mentionkit_fetch_seconds",
				Help:    "Suggestion fetch latency",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"delimiter"},
		),
		SuggestionsShown: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mentionkit_suggestions_published",
				Help:    "Number of suggestions per published list",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
			},
		),
		StaleDroppedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentionkit_stale_dropped_total",
				Help: "Fetch results dropped because newer typing superseded them",
			},
			[]string{"delimiter"},
		),
		MentionsInserted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentionkit_mentions_inserted_total",
				Help: "Suggestions bound to the text",
			},
			[]string{"delimiter"},
		),
		MentionsRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentionkit_mentions_removed_total",
				Help: "Bound mentions removed by deletions",
			},
			[]string{"delimiter"},
		),
		DirectoryLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentionkit_directory_lookups_total",
				Help: "Directory searches by record kind",
			},
			[]string{"kind"},
		),
		DirectoryThrottled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mentionkit_directory_throttled_total",
				Help: "Directory searches that waited on the rate limiter",
			},
		),
		DocumentsSavedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mentionkit_documents_saved_total",
				Help: "Draft documents written to storage",
			},
		),
	}
}

// FetchDone records a completed fetch.
func (m *Metrics) FetchDone(delimiter string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	switch {
	case errors.Is(err, context.Canceled):
		status = StatusCancelled
	case err != nil:
		status = StatusError
	}
	m.FetchesTotal.WithLabelValues(delimiter, status).Inc()
	m.FetchSeconds.WithLabelValues(delimiter).Observe(elapsed.Seconds())
}

// Published records the size of a published suggestion list.
func (m *Metrics) Published(count int) {
	if m == nil {
		return
	}
	m.SuggestionsShown.Observe(float64(count))
}

// StaleDropped records a discarded fetch result.
func (m *Metrics) StaleDropped(delimiter string) {
	if m == nil {
		return
	}
	m.StaleDroppedTotal.WithLabelValues(delimiter).Inc()
}

// Inserted records an accepted suggestion.
func (m *Metrics) Inserted(delimiter string) {
	if m == nil {
		return
	}
	m.MentionsInserted.WithLabelValues(delimiter).Inc()
}

// Removed records mentions unbound by a deletion.
func (m *Metrics) Removed(delimiter string, count int) {
	if m == nil {
		return
	}
	m.MentionsRemoved.WithLabelValues(delimiter).Add(float64(count))
}

// DirectoryLookup records a directory search for kind ("partners" or "channels").
func (m *Metrics) DirectoryLookup(kind string, throttled bool) {
	if m == nil {
		return
	}
	m.DirectoryLookups.WithLabelValues(kind).Inc()
	if throttled {
		m.DirectoryThrottled.Inc()
	}
}

// DocumentSaved records a draft write.
func (m *Metrics) DocumentSaved() {
	if m == nil {
		return
	}
	m.DocumentsSavedTotal.Inc()
}

// =============================================================================
// EXPOSITION
// =============================================================================

// Handler serves the metrics registered on g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
