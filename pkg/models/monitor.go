// Package models pkg/models/monitor.go
package models

import "time"

// MonitorStatus is a point-in-time snapshot of the liveness monitor.
type MonitorStatus struct {
	Enabled   bool          `json:"monitor_enabled"`
	Running   bool          `json:"running"`
	Interval  time.Duration `json:"interval"`
	Threshold time.Duration `json:"threshold"`
	LastCycle *CycleResult  `json:"last_cycle,omitempty"`
}

// TaskStatus renders the running flag the way the control API reports it.
func (s MonitorStatus) TaskStatus() string {
	if s.Running {
		return "running"
	}

	return "stopped"
}

// CycleResult summarises one scan cycle.
type CycleResult struct {
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Scanned     int           `json:"scanned"`
	WentOffline int           `json:"went_offline"`
	WriteFailed int           `json:"write_failed"`
	ListFailed  bool          `json:"list_failed"`
}
