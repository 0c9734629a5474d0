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

// Package models pkg/models/heartbeat.go
package models

import "time"

// DeviceStatus is the cached liveness state of a device.
type DeviceStatus string

const (
	StatusOnline  DeviceStatus = "online"
	StatusOffline DeviceStatus = "offline"
)

// Valid reports whether s is one of the known device states.
func (s DeviceStatus) Valid() bool {
	return s == StatusOnline || s == StatusOffline
}

// HeartbeatRecord is the latest heartbeat seen from a single device.
type HeartbeatRecord struct {
	MACAddress string       `json:"mac_address"`
	IPAddress  string       `json:"ip_address"`
	Serial     string       `json:"sn"`
	BeatTime   time.Time    `json:"beat_time"`
	Status     DeviceStatus `json:"status"`
	CreatedAt  time.Time    `json:"create_time"`
}

// HeartbeatRequest is a heartbeat as sent by a device, before validation.
type HeartbeatRequest struct {
	IPAddress  string `json:"ip_address"`
	MACAddress string `json:"mac_address"`
	Serial     string `json:"sn"`
	BeatTime   string `json:"beat_time"` // RFC 3339 with offset
}

// HeartbeatUpdate carries the raw fields of a partial update. Nil fields are left alone.
type HeartbeatUpdate struct {
	IPAddress *string `json:"ip_address,omitempty"`
	Serial    *string `json:"sn,omitempty"`
	BeatTime  *string `json:"beat_time,omitempty"`
}

// HeartbeatFields is a validated partial update handed to the store.
type HeartbeatFields struct {
	IPAddress *string
	Serial    *string
	BeatTime  *time.Time
}

// Empty reports whether the update touches no field.
func (f *HeartbeatFields) Empty() bool {
	return f == nil || (f.IPAddress == nil && f.Serial == nil && f.BeatTime == nil)
}

// ListFilter restricts a heartbeat listing. A zero Limit means no limit.
type ListFilter struct {
	Limit  int
	Offset int
}
