package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/beatradar/pkg/models"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	c, err := NewPrometheus(reg, "")
	require.NoError(t, err)

	c.RecordHeartbeat(SourceHTTP, nil)
	c.RecordHeartbeat(SourceHTTP, nil)
	c.RecordHeartbeat(SourceMQTT, errors.New("bad payload"))

	assert.InDelta(t, 2, testutil.ToFloat64(c.heartbeats.WithLabelValues(SourceHTTP, "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.heartbeats.WithLabelValues(SourceMQTT, "error")), 0)

	c.RecordCycle(&models.CycleResult{Scanned: 7, WriteFailed: 2, Duration: 5 * time.Millisecond})
	c.RecordCycle(&models.CycleResult{ListFailed: true})
	c.RecordCycle(nil)

	assert.InDelta(t, 1, testutil.ToFloat64(c.cycles.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.cycles.WithLabelValues("list_failed")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(c.devicesScanned), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.statusWriteFails), 0)

	c.RecordTransition(models.StatusOffline)
	assert.InDelta(t, 1, testutil.ToFloat64(c.transitions.WithLabelValues("offline")), 0)

	c.SetMonitorState(true, false)
	assert.InDelta(t, 1, testutil.ToFloat64(c.monitorEnabled), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(c.monitorRunning), 0)
}

func TestNewPrometheus_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewPrometheus(reg, "dup")
	require.NoError(t, err)

	_, err = NewPrometheus(reg, "dup")
	require.Error(t, err)
}

func TestNopCollector(t *testing.T) {
	c := NewNop()

	assert.NotPanics(t, func() {
		c.RecordHeartbeat(SourceHTTP, nil)
		c.RecordCycle(&models.CycleResult{})
		c.RecordTransition(models.StatusOffline)
		c.SetMonitorState(true, true)
	})
}
