package metrics

import "github.com/mfreeman451/beatradar/pkg/models"

// NopCollector discards every metric.
type NopCollector struct{}

var _ Collector = NopCollector{}

// NewNop returns a collector that records nothing.
func NewNop() Collector {
	return NopCollector{}
}

func (NopCollector) RecordHeartbeat(string, error) {}

func (NopCollector) RecordCycle(*models.CycleResult) {}

func (NopCollector) RecordTransition(models.DeviceStatus) {}

func (NopCollector) SetMonitorState(bool, bool) {}
