// Package api pkg/api/server.go serves the heartbeat and monitor control API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/db"
	"github.com/mfreeman451/beatradar/pkg/heartbeat"
	httpx "github.com/mfreeman451/beatradar/pkg/http"
	"github.com/mfreeman451/beatradar/pkg/metrics"
	"github.com/mfreeman451/beatradar/pkg/models"
)

const (
	defaultListLimit = 100
	maxBodyBytes     = 1 << 20
	readTimeout      = 10 * time.Second
	writeTimeout     = 10 * time.Second
	healthTimeout    = 2 * time.Second
)

// Options wires an APIServer. Metrics and MetricsHandler are optional.
type Options struct {
	Heartbeats     HeartbeatService
	Monitor        MonitorController
	Health         HealthChecker
	Metrics        metrics.Collector
	MetricsHandler http.Handler
	Logger         zerolog.Logger
	Version        string
	RateLimit      float64
	Burst          int
}

type APIServer struct {
	heartbeats HeartbeatService
	monitor    MonitorController
	health     HealthChecker
	metrics    metrics.Collector
	logger     zerolog.Logger
	version    string
	router     *mux.Router
	server     *http.Server
	now        func() time.Time
}

func NewAPIServer(opts *Options) *APIServer {
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewNop()
	}

	s := &APIServer{
		heartbeats: opts.Heartbeats,
		monitor:    opts.Monitor,
		health:     opts.Health,
		metrics:    collector,
		logger:     opts.Logger.With().Str("component", "api").Logger(),
		version:    opts.Version,
		router:     mux.NewRouter(),
		now:        time.Now,
	}

	s.setupRoutes(opts)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return s
}

func (s *APIServer) setupRoutes(opts *Options) {
	s.router.Use(httpx.RequestID, httpx.Logging(s.logger), httpx.CommonMiddleware)

	limit := httpx.RateLimit(opts.RateLimit, opts.Burst)

	s.router.Handle("/heartbeat", limit(http.HandlerFunc(s.recordHeartbeat))).Methods(http.MethodPost)
	s.router.HandleFunc("/heartbeat", s.listHeartbeats).Methods(http.MethodGet)
	s.router.HandleFunc("/heartbeat/{mac}", s.getHeartbeat).Methods(http.MethodGet)
	s.router.HandleFunc("/heartbeat/{mac}", s.updateHeartbeat).Methods(http.MethodPut)
	s.router.HandleFunc("/heartbeat/{mac}", s.deleteHeartbeat).Methods(http.MethodDelete)

	// Monitor control
	s.router.HandleFunc("/monitor/enable", s.enableMonitor).Methods(http.MethodPost)
	s.router.HandleFunc("/monitor/disable", s.disableMonitor).Methods(http.MethodPost)
	s.router.HandleFunc("/monitor/restart", s.restartMonitor).Methods(http.MethodPost)
	s.router.HandleFunc("/monitor/status", s.monitorStatus).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.root).Methods(http.MethodGet)

	if opts.MetricsHandler != nil {
		s.router.Handle("/metrics", opts.MetricsHandler).Methods(http.MethodGet)
	}
}

// Handler exposes the router, mainly for tests.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Stop is called.
func (s *APIServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("http api: %w", err)
	}

	return s.Serve(lis)
}

// Serve serves on an existing listener until Stop is called.
func (s *APIServer) Serve(lis net.Listener) error {
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("Starting HTTP API")

	if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http api: %w", err)
	}

	return nil
}

func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *APIServer) recordHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req models.HeartbeatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.metrics.RecordHeartbeat(metrics.SourceHTTP, err)
		respondError(w, http.StatusBadRequest, "Invalid JSON body")

		return
	}

	record, err := s.heartbeats.RecordHeartbeat(r.Context(), &req)
	s.metrics.RecordHeartbeat(metrics.SourceHTTP, err)

	if err != nil {
		s.respondServiceError(w, r, err)

		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (s *APIServer) listHeartbeats(w http.ResponseWriter, r *http.Request) {
	filter := &models.ListFilter{Limit: defaultListLimit}

	var err error

	if v := r.URL.Query().Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			respondError(w, http.StatusBadRequest, "limit must be an integer")

			return
		}
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			respondError(w, http.StatusBadRequest, "offset must be an integer")

			return
		}
	}

	records, err := s.heartbeats.ListHeartbeats(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, r, err)

		return
	}

	respondJSON(w, http.StatusOK, records)
}

func (s *APIServer) getHeartbeat(w http.ResponseWriter, r *http.Request) {
	record, err := s.heartbeats.GetHeartbeat(r.Context(), mux.Vars(r)["mac"])
	if err != nil {
		s.respondServiceError(w, r, err)

		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (s *APIServer) updateHeartbeat(w http.ResponseWriter, r *http.Request) {
	var update models.HeartbeatUpdate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")

		return
	}

	record, fields, err := s.heartbeats.UpdateHeartbeat(r.Context(), mux.Vars(r)["mac"], &update)
	if err != nil {
		s.respondServiceError(w, r, err)

		return
	}

	respondJSON(w, http.StatusOK, UpdateResponse{
		UpdatedFields: fields,
		Message:       fmt.Sprintf("Successfully updated %d field(s)", len(fields)),
		Heartbeat:     record,
	})
}

func (s *APIServer) deleteHeartbeat(w http.ResponseWriter, r *http.Request) {
	mac := mux.Vars(r)["mac"]

	if err := s.heartbeats.DeleteHeartbeat(r.Context(), mac); err != nil {
		s.respondServiceError(w, r, err)

		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Heartbeat record for MAC %s deleted successfully", mac),
	})
}

func (s *APIServer) enableMonitor(w http.ResponseWriter, _ *http.Request) {
	s.monitor.Enable()
	s.respondControl(w, "enable", "Heartbeat monitor enabled")
}

func (s *APIServer) disableMonitor(w http.ResponseWriter, _ *http.Request) {
	s.monitor.Disable()
	s.respondControl(w, "disable", "Heartbeat monitor disabled")
}

func (s *APIServer) restartMonitor(w http.ResponseWriter, _ *http.Request) {
	s.monitor.Restart()
	s.respondControl(w, "restart", "Heartbeat monitor restarted")
}

func (s *APIServer) respondControl(w http.ResponseWriter, action, message string) {
	respondJSON(w, http.StatusOK, MonitorControlResponse{
		Action:    action,
		Status:    "success",
		Message:   message,
		Timestamp: s.now().UTC(),
	})
}

func (s *APIServer) monitorStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.monitor.Status()

	respondJSON(w, http.StatusOK, MonitorStatusResponse{
		MonitorEnabled: status.Enabled,
		TaskStatus:     status.TaskStatus(),
		MonitorStatus:  describeMonitor(status),
		Interval:       status.Interval.String(),
		Threshold:      status.Threshold.String(),
		LastCycle:      status.LastCycle,
		Timestamp:      s.now().UTC(),
	})
}

func (s *APIServer) healthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "healthy",
		Database:    "connected",
		MonitorTask: describeMonitor(s.monitor.Status()),
		Timestamp:   s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.health.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Health check failed")

		resp.Status = "unhealthy"
		resp.Database = "error: " + err.Error()

		respondJSON(w, http.StatusServiceUnavailable, resp)

		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *APIServer) root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, RootResponse{
		Message:   "Heartbeat monitor API is running",
		Timestamp: s.now().UTC(),
		Version:   s.version,
	})
}

// respondServiceError maps service errors onto status codes. Store failures
// are logged and reported without detail.
func (s *APIServer) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, heartbeat.ErrInvalidHeartbeat):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNotFound):
		respondError(w, http.StatusNotFound, "Heartbeat record not found")
	default:
		s.logger.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", httpx.RequestIDFrom(r.Context())).
			Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
