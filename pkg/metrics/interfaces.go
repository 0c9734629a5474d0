package metrics

import "github.com/mfreeman451/beatradar/pkg/models"

//go:generate mockgen -destination=mock_collector.go -package=metrics github.com/mfreeman451/beatradar/pkg/metrics Collector

// Heartbeat ingress sources.
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
)

// Collector records liveness events. Implementations must be safe for concurrent use.
type Collector interface {
	// RecordHeartbeat counts one ingested heartbeat; err is the outcome of recording it.
	RecordHeartbeat(source string, err error)
	// RecordCycle records a finished scan cycle.
	RecordCycle(result *models.CycleResult)
	// RecordTransition counts a device status change written by the monitor.
	RecordTransition(status models.DeviceStatus)
	// SetMonitorState publishes the controller flags.
	SetMonitorState(enabled, running bool)
}
