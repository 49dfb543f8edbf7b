// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "time"

// Recorder receives engine events for metrics.
type Recorder interface {
	FetchDone(delimiter string, elapsed time.Duration, err error)
	Published(count int)
	StaleDropped(delimiter string)
	Inserted(delimiter string)
	Removed(delimiter string, count int)
}

type nopRecorder struct{}

func (nopRecorder) FetchDone(string, time.Duration, error) {}
func (nopRecorder) Published(int)                          {}
func (nopRecorder) StaleDropped(string)                    {}
func (nopRecorder) Inserted(string)                        {}
func (nopRecorder) Removed(string, int)                    {}
