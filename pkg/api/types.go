/*-
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

package api

import (
	"time"

	"github.com/mfreeman451/beatradar/pkg/models"
)

type UpdateResponse struct {
	UpdatedFields []string                `json:"updated_fields"`
	Message       string                  `json:"message"`
	Heartbeat     *models.HeartbeatRecord `json:"heartbeat"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type HealthResponse struct {
	Status      string    `json:"status"` // healthy or unhealthy
	Database    string    `json:"database"`
	MonitorTask string    `json:"monitor_task"` // e.g. "running (enabled)"
	Timestamp   time.Time `json:"timestamp"`
}

type MonitorControlResponse struct {
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type MonitorStatusResponse struct {
	MonitorEnabled bool                `json:"monitor_enabled"`
	TaskStatus     string              `json:"task_status"`
	MonitorStatus  string              `json:"monitor_status"`
	Interval       string              `json:"interval"`
	Threshold      string              `json:"threshold"`
	LastCycle      *models.CycleResult `json:"last_cycle,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
}

// describeMonitor renders the monitor state as "<task> (<enabled|disabled>)".
func describeMonitor(s models.MonitorStatus) string {
	enabled := "disabled"
	if s.Enabled {
		enabled = "enabled"
	}

	return s.TaskStatus() + " (" + enabled + ")"
}
