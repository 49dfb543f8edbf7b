// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mentionkit/internal/mention"
)

// Compile-time check that Metrics plugs into the mention manager.
var _ mention.Recorder = (*Metrics)(nil)

func TestMetrics_Recorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.FetchDone("@", 20*time.Millisecond, nil)
	m.FetchDone("@", time.Millisecond, errors.New("down"))
	m.FetchDone("#@", time.Millisecond, context.Canceled)
	m.Published(3)
	m.StaleDropped("@")
	m.Inserted("@")
	m.Removed("@", 2)
	m.DirectoryLookup("partner", true)
	m.DocumentSaved()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("@", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("@", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("#@", StatusCancelled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleDroppedTotal.WithLabelValues("@")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MentionsInserted.WithLabelValues("@")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MentionsRemoved.WithLabelValues("@")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DirectoryThrottled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsSavedTotal))

	families, err := reg.Gather()
	require.NoError(t, err)
	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
	}
	for _, name := range []string{
		"mentionkit_fetches_total",
		"mentionkit_fetch_seconds",
		"mentionkit_suggestions_published",
		"mentionkit_stale_dropped_total",
		"mentionkit_mentions_inserted_total",
		"mentionkit_mentions_removed_total",
		"mentionkit_directory_lookups_total",
		"mentionkit_directory_throttled_total",
		"mentionkit_documents_saved_total",
	} {
		assert.True(t, found[name], "metric %s not found in registry", name)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FetchDone("@", time.Second, nil)
		m.Published(1)
		m.StaleDropped("@")
		m.Inserted("@")
		m.Removed("@", 1)
		m.DirectoryLookup("channel", false)
		m.DocumentSaved()
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Inserted("@")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `mentionkit_mentions_inserted_total{delimiter="@"} 1`))
}

func TestServe_StopsOnCancel(t *testing.T) {
	reg := prometheus.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", reg, zerolog.Nop()) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
