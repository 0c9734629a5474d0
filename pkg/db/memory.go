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

// Package db pkg/db/memory.go
package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/mfreeman451/beatradar/pkg/models"
)

// memoryEntry guards a single device record. removed is set once the entry
// has been taken out of the map so that late writers holding it retry.
type memoryEntry struct {
	mu      sync.Mutex
	record  models.HeartbeatRecord
	removed bool
}

// MemoryStore implements Store in process memory. Nothing survives a restart.
type MemoryStore struct {
	records cmap.ConcurrentMap[string, *memoryEntry]
	closed  atomic.Bool
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory heartbeat store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: cmap.New[*memoryEntry](),
		now:     time.Now,
	}
}

func (s *MemoryStore) Upsert(_ context.Context, mac, ip, serial string, beatTime time.Time) (*models.HeartbeatRecord, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, ErrStoreClosed)
	}

	for {
		// Lock the candidate before publishing it so readers never see a blank record.
		fresh := &memoryEntry{}
		fresh.mu.Lock()

		entry := s.records.Upsert(mac, fresh, func(exist bool, inMap, newValue *memoryEntry) *memoryEntry {
			if exist {
				return inMap
			}

			return newValue
		})

		if entry != fresh {
			fresh.mu.Unlock()
			entry.mu.Lock()

			if entry.removed {
				entry.mu.Unlock()

				continue
			}
		} else {
			entry.record = models.HeartbeatRecord{
				MACAddress: mac,
				CreatedAt:  s.now().UTC(),
			}
		}

		entry.record.IPAddress = ip
		entry.record.Serial = serial
		entry.record.BeatTime = beatTime.UTC()
		entry.record.Status = models.StatusOnline

		record := entry.record
		entry.mu.Unlock()

		return &record, nil
	}
}

func (s *MemoryStore) Get(_ context.Context, mac string) (*models.HeartbeatRecord, error) {
	var record models.HeartbeatRecord

	err := s.withEntry(mac, func(entry *memoryEntry) error {
		record = entry.record

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *MemoryStore) List(_ context.Context, filter *models.ListFilter) ([]models.HeartbeatRecord, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, ErrStoreClosed)
	}

	records := make([]models.HeartbeatRecord, 0, s.records.Count())

	for item := range s.records.IterBuffered() {
		item.Val.mu.Lock()
		if !item.Val.removed {
			records = append(records, item.Val.record)
		}
		item.Val.mu.Unlock()
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].BeatTime.Equal(records[j].BeatTime) {
			return records[i].BeatTime.After(records[j].BeatTime)
		}

		return records[i].MACAddress < records[j].MACAddress
	})

	return paginate(records, filter), nil
}

func paginate(records []models.HeartbeatRecord, filter *models.ListFilter) []models.HeartbeatRecord {
	if filter == nil {
		return records
	}

	if filter.Offset >= len(records) {
		return []models.HeartbeatRecord{}
	}

	if filter.Offset > 0 {
		records = records[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	return records
}

func (s *MemoryStore) SetStatus(_ context.Context, mac string, status models.DeviceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %w %q", ErrDatabaseError, errInvalidStatus, status)
	}

	return s.withEntry(mac, func(entry *memoryEntry) error {
		entry.record.Status = status

		return nil
	})
}

func (s *MemoryStore) Update(_ context.Context, mac string, fields *models.HeartbeatFields) (*models.HeartbeatRecord, error) {
	var record models.HeartbeatRecord

	err := s.withEntry(mac, func(entry *memoryEntry) error {
		if fields != nil {
			if fields.IPAddress != nil {
				entry.record.IPAddress = *fields.IPAddress
			}

			if fields.Serial != nil {
				entry.record.Serial = *fields.Serial
			}

			if fields.BeatTime != nil {
				entry.record.BeatTime = fields.BeatTime.UTC()
			}
		}

		record = entry.record

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *MemoryStore) Delete(_ context.Context, mac string) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %w", ErrDatabaseError, ErrStoreClosed)
	}

	var victim *memoryEntry

	s.records.RemoveCb(mac, func(_ string, entry *memoryEntry, exists bool) bool {
		if exists {
			victim = entry
		}

		return exists
	})

	if victim == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, mac)
	}

	victim.mu.Lock()
	victim.removed = true
	victim.mu.Unlock()

	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %w", ErrDatabaseError, ErrStoreClosed)
	}

	return nil
}

func (s *MemoryStore) Close() error {
	s.closed.Store(true)

	return nil
}

// withEntry runs fn with the live entry for mac locked.
func (s *MemoryStore) withEntry(mac string, fn func(entry *memoryEntry) error) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %w", ErrDatabaseError, ErrStoreClosed)
	}

	entry, ok := s.records.Get(mac)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, mac)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed {
		return fmt.Errorf("%w: %s", ErrNotFound, mac)
	}

	return fn(entry)
}
