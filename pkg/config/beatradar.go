/*-
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

// Package config pkg/config/beatradar.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"

	EnvDBPath     = "BEATRADAR_DB_PATH"
	EnvListenAddr = "BEATRADAR_LISTEN_ADDR"
)

var (
	errInvalidConfig = errors.New("invalid configuration")
)

// Config is the beatradar process configuration.
type Config struct {
	ListenAddr string        `json:"listen_addr" yaml:"listen_addr"` // e.g., :8090
	GRPCAddr   string        `json:"grpc_addr" yaml:"grpc_addr"`     // empty disables the health server
	Store      string        `json:"store" yaml:"store"`             // sqlite or memory
	DBPath     string        `json:"db_path" yaml:"db_path"`
	LogLevel   string        `json:"log_level" yaml:"log_level"`
	LogPretty  bool          `json:"log_pretty" yaml:"log_pretty"`
	Monitor    MonitorConfig `json:"monitor" yaml:"monitor"`
	Ingest     IngestConfig  `json:"ingest" yaml:"ingest"`
	MQTT       MQTTConfig    `json:"mqtt" yaml:"mqtt"`
}

// MonitorConfig controls the liveness monitor. Values are read once at startup.
type MonitorConfig struct {
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	Interval     Duration `json:"interval" yaml:"interval"`
	Threshold    Duration `json:"threshold" yaml:"threshold"`
	CycleTimeout Duration `json:"cycle_timeout" yaml:"cycle_timeout"`
}

// IngestConfig limits heartbeat ingestion over HTTP. A zero rate disables limiting.
type IngestConfig struct {
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"` // requests per second
	Burst     int     `json:"burst" yaml:"burst"`
}

// MQTTConfig configures the optional MQTT heartbeat subscriber.
type MQTTConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Broker   string `json:"broker" yaml:"broker"`
	ClientID string `json:"client_id" yaml:"client_id"`
	Topic    string `json:"topic" yaml:"topic"`
	QoS      byte   `json:"qos" yaml:"qos"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Default returns the configuration used for any field a file leaves out.
func Default() *Config {
	return &Config{
		ListenAddr: ":8090",
		GRPCAddr:   ":50060",
		Store:      StoreSQLite,
		DBPath:     "/var/lib/beatradar/beatradar.db",
		LogLevel:   "info",
		Monitor: MonitorConfig{
			Enabled:      true,
			Interval:     Duration(30 * time.Second),
			Threshold:    Duration(5 * time.Minute),
			CycleTimeout: Duration(time.Minute),
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "beatradar",
			Topic:    "devices/+/heartbeat",
			QoS:      1,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// the result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}

	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
}

// Validate implements Validator.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: listen_addr is required", errInvalidConfig)
	}

	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%w: db_path is required for the sqlite store", errInvalidConfig)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store %q", errInvalidConfig, c.Store)
	}

	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("%w: monitor.interval must be positive", errInvalidConfig)
	}

	if c.Monitor.Threshold <= 0 {
		return fmt.Errorf("%w: monitor.threshold must be positive", errInvalidConfig)
	}

	if c.Monitor.CycleTimeout < 0 {
		return fmt.Errorf("%w: monitor.cycle_timeout must not be negative", errInvalidConfig)
	}

	if c.Ingest.RateLimit < 0 || c.Ingest.Burst < 0 {
		return fmt.Errorf("%w: ingest limits must not be negative", errInvalidConfig)
	}

	if c.MQTT.QoS > 2 {
		return fmt.Errorf("%w: mqtt.qos must be 0, 1 or 2", errInvalidConfig)
	}

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("%w: mqtt.broker is required when mqtt is enabled", errInvalidConfig)
	}

	if c.MQTT.Enabled && c.MQTT.Topic == "" {
		return fmt.Errorf("%w: mqtt.topic is required when mqtt is enabled", errInvalidConfig)
	}

	return nil
}
