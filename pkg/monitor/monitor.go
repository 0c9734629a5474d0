/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package monitor pkg/monitor/monitor.go applies the heartbeat timeout rule to
// every stored device and controls the background scan loop.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/db"
	"github.com/mfreeman451/beatradar/pkg/metrics"
	"github.com/mfreeman451/beatradar/pkg/models"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultThreshold    = 5 * time.Minute
	DefaultCycleTimeout = time.Minute
)

// Evaluate applies the timeout rule to a single record. It reports the status
// the record should move to and whether that is a change.
//
// Only online devices can time out. An offline device stays offline until a
// new heartbeat arrives; the scan never brings a device back.
func Evaluate(record *models.HeartbeatRecord, now time.Time, threshold time.Duration) (models.DeviceStatus, bool) {
	if record.Status == models.StatusOnline && now.Sub(record.BeatTime) > threshold {
		return models.StatusOffline, true
	}

	return record.Status, false
}

// Monitor runs scan cycles over the heartbeat store.
type Monitor struct {
	store     db.Store
	threshold time.Duration
	clock     Clock
	metrics   metrics.Collector
	logger    zerolog.Logger
}

// NewMonitor creates a Monitor. A nil clock means the wall clock and a nil
// collector disables metrics.
func NewMonitor(
	store db.Store, threshold time.Duration, clock Clock, collector metrics.Collector, logger zerolog.Logger) *Monitor {
	if clock == nil {
		clock = SystemClock()
	}

	if collector == nil {
		collector = metrics.NewNop()
	}

	return &Monitor{
		store:     store,
		threshold: threshold,
		clock:     clock,
		metrics:   collector,
		logger:    logger.With().Str("component", "monitor").Logger(),
	}
}

// Threshold returns the configured timeout.
func (m *Monitor) Threshold() time.Duration {
	return m.threshold
}

// RunCycle evaluates every stored record once and writes a status only where
// the rule calls for a transition. Per-device write failures are counted in
// the result and do not stop the cycle. The returned error is non-nil only
// when the cycle could not run to completion.
func (m *Monitor) RunCycle(ctx context.Context) (*models.CycleResult, error) {
	started := time.Now()
	result := &models.CycleResult{StartedAt: m.clock.Now()}

	defer func() {
		result.Duration = time.Since(started)
		m.metrics.RecordCycle(result)
	}()

	records, err := m.store.List(ctx, nil)
	if err != nil {
		result.ListFailed = true

		return result, fmt.Errorf("%w: %w", ErrListRecords, err)
	}

	now := m.clock.Now()

	for i := range records {
		// Never stop half way through a device, only between devices.
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%w after %d of %d devices: %w", errCycleAborted, result.Scanned, len(records), err)
		}

		result.Scanned++

		m.apply(ctx, &records[i], now, result)
	}

	if result.WentOffline > 0 || result.WriteFailed > 0 {
		m.logger.Info().
			Int("scanned", result.Scanned).
			Int("offline", result.WentOffline).
			Int("failed", result.WriteFailed).
			Msg("Scan cycle changed device status")
	}

	return result, nil
}

func (m *Monitor) apply(ctx context.Context, record *models.HeartbeatRecord, now time.Time, result *models.CycleResult) {
	next, changed := Evaluate(record, now, m.threshold)
	if !changed {
		return
	}

	err := m.store.SetStatus(ctx, record.MACAddress, next)

	switch {
	case errors.Is(err, db.ErrNotFound):
		// Deleted since the listing.
		m.logger.Debug().Str("mac", record.MACAddress).Msg("Device vanished during scan")
	case err != nil:
		result.WriteFailed++

		m.logger.Error().
			Err(fmt.Errorf("%w: %w", ErrStatusWrite, err)).
			Str("mac", record.MACAddress).
			Str("status", string(next)).
			Msg("Status write failed, continuing cycle")
	default:
		result.WentOffline++

		m.metrics.RecordTransition(next)
		m.logger.Info().
			Str("mac", record.MACAddress).
			Str("status", string(next)).
			Dur("silence", now.Sub(record.BeatTime)).
			Msg("Heartbeat timed out")
	}
}
