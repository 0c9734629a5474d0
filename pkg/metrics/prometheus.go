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

// Package metrics pkg/metrics/prometheus.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mfreeman451/beatradar/pkg/models"
)

const defaultNamespace = "beatradar"

// PrometheusCollector implements Collector with Prometheus instruments.
type PrometheusCollector struct {
	heartbeats       *prometheus.CounterVec
	cycles           *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	devicesScanned   prometheus.Gauge
	statusWriteFails prometheus.Counter
	transitions      *prometheus.CounterVec
	monitorEnabled   prometheus.Gauge
	monitorRunning   prometheus.Gauge
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates the collector and registers it on reg
// (prometheus.DefaultRegisterer when nil).
func NewPrometheus(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	if namespace == "" {
		namespace = defaultNamespace
	}

	p := &PrometheusCollector{
		heartbeats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "heartbeats_total",
			Help:      "Heartbeats received, by source and result.",
		}, []string{"source", "result"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "cycles_total",
			Help:      "Completed scan cycles, by result.",
		}, []string{"result"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of scan cycles in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms .. ~8s
		}),
		devicesScanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "devices_scanned",
			Help:      "Devices evaluated by the most recent scan cycle.",
		}),
		statusWriteFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "status_write_failures_total",
			Help:      "Per-device status writes that failed during a scan cycle.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "transitions_total",
			Help:      "Device status transitions written by the monitor, by new status.",
		}, []string{"status"}),
		monitorEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "enabled",
			Help:      "1 when the liveness monitor is enabled.",
		}),
		monitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "running",
			Help:      "1 while the scan loop is running.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.heartbeats, p.cycles, p.cycleDuration, p.devicesScanned,
		p.statusWriteFails, p.transitions, p.monitorEnabled, p.monitorRunning,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	return p, nil
}

func (p *PrometheusCollector) RecordHeartbeat(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	p.heartbeats.WithLabelValues(source, result).Inc()
}

func (p *PrometheusCollector) RecordCycle(result *models.CycleResult) {
	if result == nil {
		return
	}

	if result.ListFailed {
		p.cycles.WithLabelValues("list_failed").Inc()
	} else {
		p.cycles.WithLabelValues("ok").Inc()
		p.devicesScanned.Set(float64(result.Scanned))
	}

	p.cycleDuration.Observe(result.Duration.Seconds())
	p.statusWriteFails.Add(float64(result.WriteFailed))
}

func (p *PrometheusCollector) RecordTransition(status models.DeviceStatus) {
	p.transitions.WithLabelValues(string(status)).Inc()
}

func (p *PrometheusCollector) SetMonitorState(enabled, running bool) {
	p.monitorEnabled.Set(boolToFloat(enabled))
	p.monitorRunning.Set(boolToFloat(running))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
