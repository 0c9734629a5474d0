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

// Package server pkg/server/server.go assembles the beatradar process.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/api"
	"github.com/mfreeman451/beatradar/pkg/config"
	"github.com/mfreeman451/beatradar/pkg/db"
	"github.com/mfreeman451/beatradar/pkg/grpc"
	"github.com/mfreeman451/beatradar/pkg/heartbeat"
	"github.com/mfreeman451/beatradar/pkg/metrics"
	"github.com/mfreeman451/beatradar/pkg/models"
	"github.com/mfreeman451/beatradar/pkg/monitor"
	"github.com/mfreeman451/beatradar/pkg/mqtt"
)

const (
	// MonitorHealthService is the gRPC health service name that tracks the scan loop.
	MonitorHealthService = "beatradar.monitor"

	metricsNamespace = "beatradar"
)

var (
	errStoreSetup   = errors.New("failed to set up store")
	errMetricsSetup = errors.New("failed to set up metrics")
	errMonitorSetup = errors.New("failed to set up monitor")
)

// Server owns every component of a running beatradar process.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	store      db.Store
	controller *monitor.Controller
	api        *api.APIServer
	subscriber *mqtt.Subscriber

	mu       sync.Mutex
	httpAddr string
}

// New builds the process from cfg. Nothing runs until Start.
func New(cfg *config.Config, version string, logger zerolog.Logger) (*Server, error) {
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector, err := metrics.NewPrometheus(registry, metricsNamespace)
	if err != nil {
		_ = store.Close()

		return nil, fmt.Errorf("%w: %w", errMetricsSetup, err)
	}

	heartbeats := heartbeat.NewService(store, logger)

	mon := monitor.NewMonitor(store, time.Duration(cfg.Monitor.Threshold), monitor.SystemClock(), collector, logger)

	controller, err := monitor.NewController(mon, monitor.Config{
		Interval:     time.Duration(cfg.Monitor.Interval),
		CycleTimeout: time.Duration(cfg.Monitor.CycleTimeout),
		Enabled:      cfg.Monitor.Enabled,
	}, collector, logger)
	if err != nil {
		_ = store.Close()

		return nil, fmt.Errorf("%w: %w", errMonitorSetup, err)
	}

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		controller: controller,
	}

	s.api = api.NewAPIServer(&api.Options{
		Heartbeats:     heartbeats,
		Monitor:        controller,
		Health:         store,
		Metrics:        collector,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:         logger,
		Version:        version,
		RateLimit:      cfg.Ingest.RateLimit,
		Burst:          cfg.Ingest.Burst,
	})

	if cfg.MQTT.Enabled {
		s.subscriber = mqtt.New(&cfg.MQTT, heartbeats, collector, logger)
	}

	return s, nil
}

func openStore(cfg *config.Config, logger zerolog.Logger) (db.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn().Msg("Using in-memory store; heartbeats are lost on restart")

		return db.NewMemoryStore(), nil
	default:
		store, err := db.New(cfg.DBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errStoreSetup, err)
		}

		return store, nil
	}
}

// Start binds the HTTP listener, starts the monitor and connects to MQTT.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("http api: %w", err)
	}

	s.mu.Lock()
	s.httpAddr = lis.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := s.api.Serve(lis); err != nil {
			s.logger.Error().Err(err).Msg("HTTP API stopped")
		}
	}()

	if err := s.controller.Start(ctx); err != nil {
		return err
	}

	if s.subscriber != nil {
		if err := s.subscriber.Start(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	s.logger.Info().
		Str("http", s.cfg.ListenAddr).
		Bool("monitor_enabled", s.cfg.Monitor.Enabled).
		Bool("mqtt", s.subscriber != nil).
		Msg("beatradar started")

	return nil
}

// Stop shuts components down in reverse start order and closes the store.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.subscriber != nil {
		if err := s.subscriber.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mqtt: %w", err))
		}
	}

	if err := s.controller.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("monitor: %w", err))
	}

	if err := s.api.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http api: %w", err))
	}

	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	return errors.Join(errs...)
}

// RegisterGRPC mirrors the monitor's running state into the gRPC health
// service named MonitorHealthService.
func (s *Server) RegisterGRPC(srv *grpc.Server) error {
	srv.SetServing(MonitorHealthService, s.controller.Status().Running)

	s.controller.OnStateChange(func(status models.MonitorStatus) {
		srv.SetServing(MonitorHealthService, status.Running)
	})

	return nil
}

// HTTPAddr returns the bound HTTP address once Start has run.
func (s *Server) HTTPAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.httpAddr
}

// Controller exposes the monitor controller.
func (s *Server) Controller() *monitor.Controller {
	return s.controller
}
