package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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

type testEnv struct {
	server  *APIServer
	store   *db.MemoryStore
	monitor *MockMonitorController
	health  *MockHealthChecker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := db.NewMemoryStore()
	env := &testEnv{
		store:   store,
		monitor: NewMockMonitorController(ctrl),
		health:  NewMockHealthChecker(ctrl),
	}

	env.server = NewAPIServer(&Options{
		Heartbeats: heartbeat.NewService(store, zerolog.Nop()),
		Monitor:    env.monitor,
		Health:     env.health,
		Logger:     zerolog.Nop(),
		Version:    "1.0.0",
	})

	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func beatBody(mac, beat string) string {
	return fmt.Sprintf(`{"ip_address":"10.0.0.5","mac_address":%q,"sn":"SN-1","beat_time":%q}`, mac, beat)
}

func TestRecordHeartbeat(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/heartbeat", beatBody("aa:bb:cc:dd:ee:01", "2025-03-01T10:00:00Z"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	record := decode[models.HeartbeatRecord](t, rec)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", record.MACAddress)
	assert.Equal(t, models.StatusOnline, record.Status)
	assert.Equal(t, "SN-1", record.Serial)
}

func TestRecordHeartbeat_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	for name, body := range map[string]string{
		"not json":      `{"mac_address":`,
		"bad mac":       beatBody("nope", "2025-03-01T10:00:00Z"),
		"naive time":    beatBody("AA:BB:CC:DD:EE:01", "2025-03-01 10:00:00"),
		"missing field": `{"mac_address":"AA:BB:CC:DD:EE:01"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/heartbeat", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestRecordHeartbeat_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockHeartbeatService(ctrl)
	collector := metrics.NewMockCollector(ctrl)

	server := NewAPIServer(&Options{
		Heartbeats: svc,
		Monitor:    NewMockMonitorController(ctrl),
		Health:     NewMockHealthChecker(ctrl),
		Metrics:    collector,
		Logger:     zerolog.Nop(),
	})

	storeErr := fmt.Errorf("%w: database is locked", db.ErrDatabaseError)
	svc.EXPECT().RecordHeartbeat(gomock.Any(), gomock.Any()).Return(nil, storeErr)
	collector.EXPECT().RecordHeartbeat(metrics.SourceHTTP, storeErr)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/heartbeat",
		strings.NewReader(beatBody("AA:BB:CC:DD:EE:01", "2025-03-01T10:00:00Z"))))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "locked", "store details stay in the log")
}

func TestHeartbeatQueries(t *testing.T) {
	env := newTestEnv(t)

	for i, beat := range []string{"2025-03-01T10:00:00Z", "2025-03-01T10:01:00Z", "2025-03-01T10:02:00Z"} {
		rec := env.do(t, http.MethodPost, "/heartbeat", beatBody(fmt.Sprintf("AA:BB:CC:DD:EE:%02d", i), beat))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/heartbeat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.HeartbeatRecord](t, rec), 3)

	rec = env.do(t, http.MethodGet, "/heartbeat?limit=1&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[[]models.HeartbeatRecord](t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", page[0].MACAddress)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/heartbeat?limit=ten", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/heartbeat?offset=-1", "").Code)

	rec = env.do(t, http.MethodGet, "/heartbeat/aa-bb-cc-dd-ee-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AA:BB:CC:DD:EE:02", decode[models.HeartbeatRecord](t, rec).MACAddress)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/heartbeat/AA:BB:CC:DD:EE:09", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/heartbeat/garbage", "").Code)
}

func TestUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK,
		env.do(t, http.MethodPost, "/heartbeat", beatBody("AA:BB:CC:DD:EE:01", "2025-03-01T10:00:00Z")).Code)

	rec := env.do(t, http.MethodPut, "/heartbeat/AA:BB:CC:DD:EE:01", `{"sn":"SN-9","ip_address":"10.1.1.1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[UpdateResponse](t, rec)
	assert.Equal(t, []string{"ip_address", "sn"}, resp.UpdatedFields)
	assert.Equal(t, "Successfully updated 2 field(s)", resp.Message)
	assert.Equal(t, "SN-9", resp.Heartbeat.Serial)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/heartbeat/AA:BB:CC:DD:EE:01", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/heartbeat/AA:BB:CC:DD:EE:02", `{"sn":"x"}`).Code)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/heartbeat/AA:BB:CC:DD:EE:01", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/heartbeat/AA:BB:CC:DD:EE:01", "").Code)
}

func TestMonitorControl(t *testing.T) {
	env := newTestEnv(t)

	gomock.InOrder(
		env.monitor.EXPECT().Disable(),
		env.monitor.EXPECT().Enable(),
		env.monitor.EXPECT().Restart(),
	)

	for _, action := range []string{"disable", "enable", "restart"} {
		rec := env.do(t, http.MethodPost, "/monitor/"+action, "")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[MonitorControlResponse](t, rec)
		assert.Equal(t, action, resp.Action)
		assert.Equal(t, "success", resp.Status)
	}

	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, http.MethodGet, "/monitor/enable", "").Code)
}

func TestMonitorStatus(t *testing.T) {
	env := newTestEnv(t)

	env.monitor.EXPECT().Status().Return(models.MonitorStatus{
		Enabled:   false,
		Running:   false,
		Interval:  30 * time.Second,
		Threshold: 5 * time.Minute,
	})

	rec := env.do(t, http.MethodGet, "/monitor/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[MonitorStatusResponse](t, rec)
	assert.False(t, resp.MonitorEnabled)
	assert.Equal(t, "stopped", resp.TaskStatus)
	assert.Equal(t, "stopped (disabled)", resp.MonitorStatus)
	assert.Equal(t, "30s", resp.Interval)
	assert.Equal(t, "5m0s", resp.Threshold)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	running := models.MonitorStatus{Enabled: true, Running: true}
	env.monitor.EXPECT().Status().Return(running).Times(2)

	env.health.EXPECT().Ping(gomock.Any()).Return(nil)

	rec := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "running (enabled)", resp.MonitorTask)

	env.health.EXPECT().Ping(gomock.Any()).Return(errors.New("no such table"))

	rec = env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decode[HealthResponse](t, rec).Status)
}

func TestRootAndMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)

	server := NewAPIServer(&Options{
		Heartbeats: NewMockHeartbeatService(ctrl),
		Monitor:    NewMockMonitorController(ctrl),
		Health:     NewMockHealthChecker(ctrl),
		Logger:     zerolog.Nop(),
		Version:    "2.1.0",
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("beatradar_up 1\n"))
		}),
	})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2.1.0", decode[RootResponse](t, rec).Version)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "beatradar_up")
}

func TestRateLimitedIngestion(t *testing.T) {
	store := db.NewMemoryStore()
	ctrl := gomock.NewController(t)

	server := NewAPIServer(&Options{
		Heartbeats: heartbeat.NewService(store, zerolog.Nop()),
		Monitor:    NewMockMonitorController(ctrl),
		Health:     NewMockHealthChecker(ctrl),
		Logger:     zerolog.Nop(),
		RateLimit:  0.001,
		Burst:      1,
	})

	post := func() int {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/heartbeat",
			strings.NewReader(beatBody("AA:BB:CC:DD:EE:01", "2025-03-01T10:00:00Z"))))

		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// Queries are never limited.
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/heartbeat", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
}
