// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry exposes Prometheus metrics for the mention engine.
//
// # Key Types
//
//   - Metrics: counters and histograms, implements mention.Recorder
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	metrics := telemetry.NewMetrics(reg)
//	mgr := mention.NewManager(host, mention.WithRecorder(metrics))
//	http.Handle("/metrics", telemetry.Handler(reg))
//
// # Privacy
//
// Metrics carry delimiters and counts only. Typed text and record names are
// never recorded.
package telemetry
