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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/beatradar/pkg/db"
	"github.com/mfreeman451/beatradar/pkg/heartbeat"
	"github.com/mfreeman451/beatradar/pkg/metrics"
	"github.com/mfreeman451/beatradar/pkg/models"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestEvaluate(t *testing.T) {
	threshold := 5 * time.Minute

	tests := []struct {
		name        string
		status      models.DeviceStatus
		silence     time.Duration
		wantStatus  models.DeviceStatus
		wantChanged bool
	}{
		{"online fresh", models.StatusOnline, time.Minute, models.StatusOnline, false},
		{"online exactly at threshold", models.StatusOnline, threshold, models.StatusOnline, false},
		{"online just past threshold", models.StatusOnline, threshold + time.Nanosecond, models.StatusOffline, true},
		{"online long silent", models.StatusOnline, 24 * time.Hour, models.StatusOffline, true},
		{"offline stale stays", models.StatusOffline, time.Hour, models.StatusOffline, false},
		{"offline fresh is not revived", models.StatusOffline, time.Second, models.StatusOffline, false},
		{"beat in the future", models.StatusOnline, -time.Minute, models.StatusOnline, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &models.HeartbeatRecord{
				MACAddress: "AA:BB:CC:DD:EE:01",
				BeatTime:   t0,
				Status:     tt.status,
			}

			got, changed := Evaluate(record, t0.Add(tt.silence), threshold)
			assert.Equal(t, tt.wantStatus, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func seed(t *testing.T, store db.Store, mac string, beat time.Time) {
	t.Helper()

	_, err := store.Upsert(context.Background(), mac, "10.0.0.1", "SN", beat)
	require.NoError(t, err)
}

func TestRunCycle_TimeoutScenario(t *testing.T) {
	store := newCountingStore()
	clock := newFakeClock(t0)
	svc := heartbeat.NewService(store, zerolog.Nop())
	m := NewMonitor(store, 5*time.Minute, clock, nil, zerolog.Nop())
	ctx := context.Background()

	record, err := svc.RecordHeartbeat(ctx, &models.HeartbeatRequest{
		MACAddress: "AA:BB:CC:DD:EE:01",
		BeatTime:   t0.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnline, record.Status)

	clock.Advance(6 * time.Minute)

	result, err := m.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.WentOffline)

	got, err := svc.GetHeartbeat(ctx, "AA:BB:CC:DD:EE:01")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffline, got.Status)

	// Recovery needs no scan.
	lists := store.lists.Load()

	_, err = svc.RecordHeartbeat(ctx, &models.HeartbeatRequest{
		MACAddress: "AA:BB:CC:DD:EE:01",
		BeatTime:   t0.Add(6*time.Minute + time.Second).Format(time.RFC3339),
	})
	require.NoError(t, err)

	got, err = svc.GetHeartbeat(ctx, "AA:BB:CC:DD:EE:01")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnline, got.Status)
	assert.Equal(t, lists, store.lists.Load())
}

func TestRunCycle_Idempotent(t *testing.T) {
	store := newCountingStore()
	clock := newFakeClock(t0)
	m := NewMonitor(store, 5*time.Minute, clock, nil, zerolog.Nop())
	ctx := context.Background()

	seed(t, store, "AA:BB:CC:DD:EE:01", t0.Add(-10*time.Minute))
	seed(t, store, "AA:BB:CC:DD:EE:02", t0.Add(-time.Minute))
	seed(t, store, "AA:BB:CC:DD:EE:03", t0.Add(-time.Hour))

	first, err := m.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Scanned)
	assert.Equal(t, 2, first.WentOffline)
	assert.Equal(t, int64(2), store.setStatus.Load())

	second, err := m.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.WentOffline)
	assert.Equal(t, int64(2), store.setStatus.Load(), "an unchanged set and clock must not write again")
}

func TestRunCycle_WriteFailureDoesNotAbort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	collector := metrics.NewMockCollector(ctrl)
	m := NewMonitor(store, 5*time.Minute, newFakeClock(t0), collector, zerolog.Nop())

	stale := t0.Add(-time.Hour)
	records := []models.HeartbeatRecord{
		{MACAddress: "AA:BB:CC:DD:EE:01", BeatTime: stale, Status: models.StatusOnline},
		{MACAddress: "AA:BB:CC:DD:EE:02", BeatTime: stale, Status: models.StatusOnline},
		{MACAddress: "AA:BB:CC:DD:EE:03", BeatTime: stale, Status: models.StatusOnline},
		{MACAddress: "AA:BB:CC:DD:EE:04", BeatTime: t0, Status: models.StatusOnline},
	}

	store.EXPECT().List(gomock.Any(), gomock.Nil()).Return(records, nil)
	store.EXPECT().SetStatus(gomock.Any(), "AA:BB:CC:DD:EE:01", models.StatusOffline).
		Return(fmt.Errorf("%w: disk I/O error", db.ErrDatabaseError))
	store.EXPECT().SetStatus(gomock.Any(), "AA:BB:CC:DD:EE:02", models.StatusOffline).
		Return(fmt.Errorf("%w: AA:BB:CC:DD:EE:02", db.ErrNotFound))
	store.EXPECT().SetStatus(gomock.Any(), "AA:BB:CC:DD:EE:03", models.StatusOffline).Return(nil)

	collector.EXPECT().RecordTransition(models.StatusOffline).Times(1)
	collector.EXPECT().RecordCycle(gomock.Any()).Do(func(result *models.CycleResult) {
		assert.Equal(t, 4, result.Scanned)
		assert.Equal(t, 1, result.WriteFailed)
	})

	result, err := m.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Scanned)
	assert.Equal(t, 1, result.WentOffline)
	assert.Equal(t, 1, result.WriteFailed)
	assert.False(t, result.ListFailed)
}

func TestRunCycle_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := db.NewMockStore(ctrl)
	m := NewMonitor(store, 5*time.Minute, newFakeClock(t0), nil, zerolog.Nop())

	store.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: connection refused", db.ErrDatabaseError))

	result, err := m.RunCycle(context.Background())
	require.ErrorIs(t, err, ErrListRecords)
	require.ErrorIs(t, err, db.ErrDatabaseError)
	assert.True(t, result.ListFailed)
	assert.Zero(t, result.Scanned)
}

func TestRunCycle_CancelledBetweenDevices(t *testing.T) {
	store := newCountingStore()
	m := NewMonitor(store, 5*time.Minute, newFakeClock(t0), nil, zerolog.Nop())

	seed(t, store, "AA:BB:CC:DD:EE:01", t0.Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	store.setOnList(func(context.Context) error {
		cancel()

		return nil
	})

	result, err := m.RunCycle(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, result.Scanned)
	assert.Zero(t, store.setStatus.Load())
}
