package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/mfreeman451/beatradar/pkg/config"
	"github.com/mfreeman451/beatradar/pkg/grpc"
	"github.com/mfreeman451/beatradar/pkg/models"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.Store = config.StoreMemory
	cfg.Monitor.Interval = config.Duration(time.Hour)

	return cfg
}

func startServer(t *testing.T, cfg *config.Config) (*Server, string) {
	t.Helper()

	srv, err := New(cfg, "test", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, srv.Start(context.Background()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		assert.NoError(t, srv.Stop(ctx))
	})

	return srv, "http://" + srv.HTTPAddr()
}

func TestServer_EndToEnd(t *testing.T) {
	srv, base := startServer(t, testConfig())

	require.Eventually(t, func() bool { return srv.Controller().Status().Running }, 2*time.Second, 10*time.Millisecond)

	body := `{"mac_address":"aa-bb-cc-dd-ee-01","ip_address":"10.0.0.5","sn":"SN-1",` +
		`"beat_time":"` + time.Now().UTC().Format(time.RFC3339Nano) + `"}`

	resp, err := http.Post(base+"/heartbeat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/heartbeat/AA:BB:CC:DD:EE:01")
	require.NoError(t, err)

	var record models.HeartbeatRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	_ = resp.Body.Close()

	assert.Equal(t, "AA:BB:CC:DD:EE:01", record.MACAddress)
	assert.Equal(t, models.StatusOnline, record.Status)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)

	assert.Contains(t, string(raw), `beatradar_ingest_heartbeats_total{result="ok",source="http"} 1`)
	assert.Contains(t, string(raw), "beatradar_monitor_running 1")
}

func TestServer_StartsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Monitor.Enabled = false

	srv, base := startServer(t, cfg)

	status := srv.Controller().Status()
	assert.False(t, status.Enabled)
	assert.False(t, status.Running)

	resp, err := http.Post(base+"/monitor/enable", "application/json", http.NoBody)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, srv.Controller().Status().Enabled)
}

func TestServer_RegisterGRPCMirrorsMonitor(t *testing.T) {
	cfg := testConfig()
	cfg.Monitor.Enabled = false

	srv, err := New(cfg, "test", zerolog.Nop())
	require.NoError(t, err)

	grpcSrv := grpc.NewServer("127.0.0.1:0", zerolog.Nop())
	require.NoError(t, grpcSrv.RegisterHealthServer())
	require.NoError(t, srv.RegisterGRPC(grpcSrv))

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := grpcSrv.GetHealthCheck().Check(context.Background(),
			&healthpb.HealthCheckRequest{Service: MonitorHealthService})
		require.NoError(t, err)

		return resp.GetStatus()
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check())

	srv.Controller().Enable()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check())

	srv.Controller().Disable()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check())

	require.NoError(t, srv.Stop(context.Background()))
}

func TestNew_BadStorePath(t *testing.T) {
	cfg := testConfig()
	cfg.Store = config.StoreSQLite
	cfg.DBPath = t.TempDir() + "/missing/dir/beatradar.db"

	_, err := New(cfg, "test", zerolog.Nop())
	require.ErrorIs(t, err, errStoreSetup)
}
