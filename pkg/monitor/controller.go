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

// Package monitor pkg/monitor/controller.go
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/metrics"
	"github.com/mfreeman451/beatradar/pkg/models"
)

// Config holds the settings read once at startup. Changing them requires a
// new Controller.
type Config struct {
	Interval     time.Duration
	CycleTimeout time.Duration
	// Enabled is the state Start leaves the monitor in.
	Enabled bool
}

// StateListener is called after every controller transition.
type StateListener func(status models.MonitorStatus)

// Controller owns the single scan loop of the process.
type Controller struct {
	monitor      *Monitor
	interval     time.Duration
	cycleTimeout time.Duration
	startEnabled bool
	metrics      metrics.Collector
	logger       zerolog.Logger

	// opMu serialises Enable, Disable and Restart. It may be held while a
	// stopping loop drains, so Status never takes it.
	opMu sync.Mutex

	mu        sync.RWMutex
	enabled   bool
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	lastCycle *models.CycleResult
	listeners []StateListener
}

// NewController creates a disabled controller for m.
func NewController(m *Monitor, cfg Config, collector metrics.Collector, logger zerolog.Logger) (*Controller, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil monitor", errInvalidSetting)
	}

	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval %v", errInvalidSetting, cfg.Interval)
	}

	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = DefaultCycleTimeout
	}

	if collector == nil {
		collector = metrics.NewNop()
	}

	return &Controller{
		monitor:      m,
		interval:     cfg.Interval,
		cycleTimeout: cfg.CycleTimeout,
		startEnabled: cfg.Enabled,
		metrics:      collector,
		logger:       logger.With().Str("component", "monitor_controller").Logger(),
	}, nil
}

// OnStateChange registers fn to be called after each transition.
func (c *Controller) OnStateChange(fn StateListener) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, fn)
}

// Start brings the monitor into its configured initial state.
func (c *Controller) Start(_ context.Context) error {
	if c.startEnabled {
		c.Enable()

		return nil
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.logger.Info().Msg("Liveness monitor starts disabled")
	c.notify()

	return nil
}

// Stop disables the monitor, giving an in-flight cycle until ctx expires to finish.
func (c *Controller) Stop(ctx context.Context) error {
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		c.Disable()
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stopping liveness monitor: %w", ctx.Err())
	}
}

// Enable starts the scan loop. It is a no-op when already enabled.
func (c *Controller) Enable() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.enableLocked() {
		c.logger.Info().Dur("interval", c.interval).Dur("threshold", c.monitor.Threshold()).Msg("Liveness monitor enabled")
		c.notify()
	}
}

// Disable stops scheduling cycles. The pending wait is cancelled at once; a
// cycle already running is allowed to finish. Ingestion is unaffected.
func (c *Controller) Disable() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.disableLocked() {
		c.logger.Info().Msg("Liveness monitor disabled")
		c.notify()
	}
}

// Restart replaces the scan loop with a fresh one, whatever the prior state.
func (c *Controller) Restart() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.disableLocked()
	c.enableLocked()

	c.logger.Info().Msg("Liveness monitor restarted")
	c.notify()
}

// Status returns a snapshot of the runtime state without waiting on transitions.
func (c *Controller) Status() models.MonitorStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := models.MonitorStatus{
		Enabled:   c.enabled,
		Running:   c.running,
		Interval:  c.interval,
		Threshold: c.monitor.Threshold(),
	}

	if c.lastCycle != nil {
		last := *c.lastCycle
		status.LastCycle = &last
	}

	return status
}

func (c *Controller) enableLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enabled {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.enabled = true
	c.running = true
	c.cancel = cancel
	c.done = done

	go c.loop(ctx, done)

	return true
}

func (c *Controller) disableLocked() bool {
	c.mu.Lock()

	if !c.enabled {
		c.mu.Unlock()

		return false
	}

	cancel, done := c.cancel, c.done
	c.enabled = false
	c.mu.Unlock()

	cancel()
	<-done

	c.mu.Lock()
	c.running = false
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	return true
}

// loop runs a cycle immediately and then once per interval until ctx is cancelled.
func (c *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runCycle(ctx)
		}
	}
}

func (c *Controller) runCycle(loopCtx context.Context) {
	if loopCtx.Err() != nil {
		return
	}

	// Disable must not cut a cycle short, so the cycle only inherits values.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(loopCtx), c.cycleTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Err(fmt.Errorf("%w: %v", errCyclePanic, r)).Msg("Recovered from scan cycle panic")
		}
	}()

	result, err := c.monitor.RunCycle(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Scan cycle failed")
	}

	if result != nil {
		c.mu.Lock()
		c.lastCycle = result
		c.mu.Unlock()
	}
}

// notify publishes the current state. Callers hold opMu so listeners see
// transitions in order.
func (c *Controller) notify() {
	status := c.Status()

	c.mu.RLock()
	listeners := make([]StateListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()

	c.metrics.SetMonitorState(status.Enabled, status.Running)

	for _, fn := range listeners {
		fn(status)
	}
}
