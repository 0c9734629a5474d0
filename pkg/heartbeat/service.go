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

// Package heartbeat pkg/heartbeat/service.go validates device heartbeats and
// records them in the heartbeat store.
package heartbeat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/db"
	"github.com/mfreeman451/beatradar/pkg/models"
)

// Names reported by UpdateHeartbeat.
const (
	FieldIPAddress = "ip_address"
	FieldSerial    = "sn"
	FieldBeatTime  = "beat_time"
)

// Service is the ingestion and query side of the heartbeat store.
// It is the only code path that marks a device online.
type Service struct {
	store  db.Store
	logger zerolog.Logger
}

func NewService(store db.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "heartbeat").Logger(),
	}
}

// RecordHeartbeat validates req and upserts it, forcing the device online.
func (s *Service) RecordHeartbeat(ctx context.Context, req *models.HeartbeatRequest) (*models.HeartbeatRecord, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeartbeat, errNilRequest)
	}

	mac, err := NormalizeMAC(req.MACAddress)
	if err != nil {
		return nil, err
	}

	beatTime, err := ParseBeatTime(req.BeatTime)
	if err != nil {
		return nil, err
	}

	ip, err := validateIP(req.IPAddress)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Upsert(ctx, mac, ip, req.Serial, beatTime)
	if err != nil {
		s.logger.Error().Err(err).Str("mac", mac).Msg("Failed to record heartbeat")

		return nil, err
	}

	s.logger.Debug().Str("mac", mac).Time("beat_time", record.BeatTime).Msg("Heartbeat recorded")

	return record, nil
}

func (s *Service) GetHeartbeat(ctx context.Context, rawMAC string) (*models.HeartbeatRecord, error) {
	mac, err := NormalizeMAC(rawMAC)
	if err != nil {
		return nil, err
	}

	return s.store.Get(ctx, mac)
}

func (s *Service) ListHeartbeats(ctx context.Context, filter *models.ListFilter) ([]models.HeartbeatRecord, error) {
	if filter != nil && (filter.Limit < 0 || filter.Offset < 0) {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidHeartbeat)
	}

	return s.store.List(ctx, filter)
}

// DeleteHeartbeat removes a device. This is the only way a record goes away.
func (s *Service) DeleteHeartbeat(ctx context.Context, rawMAC string) error {
	mac, err := NormalizeMAC(rawMAC)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, mac); err != nil {
		return err
	}

	s.logger.Info().Str("mac", mac).Msg("Heartbeat record deleted")

	return nil
}

// UpdateHeartbeat applies a partial update without touching the device status
// and returns the names of the fields it changed.
func (s *Service) UpdateHeartbeat(
	ctx context.Context, rawMAC string, update *models.HeartbeatUpdate) (*models.HeartbeatRecord, []string, error) {
	mac, err := NormalizeMAC(rawMAC)
	if err != nil {
		return nil, nil, err
	}

	fields, names, err := toFields(update)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.store.Update(ctx, mac, fields)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("mac", mac).Strs("fields", names).Msg("Heartbeat record updated")

	return record, names, nil
}

func toFields(update *models.HeartbeatUpdate) (*models.HeartbeatFields, []string, error) {
	if update == nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidHeartbeat, errNoFields)
	}

	fields := &models.HeartbeatFields{}
	names := make([]string, 0, 3)

	if update.IPAddress != nil {
		ip, err := validateIP(*update.IPAddress)
		if err != nil {
			return nil, nil, err
		}

		fields.IPAddress = &ip
		names = append(names, FieldIPAddress)
	}

	if update.Serial != nil {
		serial := *update.Serial
		fields.Serial = &serial
		names = append(names, FieldSerial)
	}

	if update.BeatTime != nil {
		beatTime, err := ParseBeatTime(*update.BeatTime)
		if err != nil {
			return nil, nil, err
		}

		fields.BeatTime = &beatTime
		names = append(names, FieldBeatTime)
	}

	if fields.Empty() {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidHeartbeat, errNoFields)
	}

	return fields, names, nil
}
