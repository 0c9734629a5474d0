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

// Package mqtt pkg/mqtt/subscriber.go feeds heartbeats published over MQTT
// into the heartbeat service.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/config"
	"github.com/mfreeman451/beatradar/pkg/metrics"
	"github.com/mfreeman451/beatradar/pkg/models"
)

const (
	connectTimeout   = 10 * time.Second
	subscribeTimeout = 5 * time.Second
	recordTimeout    = 5 * time.Second
	disconnectQuiet  = 250 // milliseconds
)

// Client is the subset of paho.Client the subscriber uses.
type Client interface {
	Connect() paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
	Unsubscribe(topics ...string) paho.Token
	Disconnect(quiesce uint)
}

// Recorder accepts validated heartbeats.
type Recorder interface {
	RecordHeartbeat(ctx context.Context, req *models.HeartbeatRequest) (*models.HeartbeatRecord, error)
}

// Subscriber consumes heartbeat messages from a single topic filter.
type Subscriber struct {
	client     Client
	topic      string
	qos        byte
	recorder   Recorder
	metrics    metrics.Collector
	logger     zerolog.Logger
	now        func() time.Time
	subscribed atomic.Bool
}

// New creates a subscriber backed by a paho client for cfg. The client
// reconnects on its own and re-subscribes after every reconnect.
func New(cfg *config.MQTTConfig, recorder Recorder, collector metrics.Collector, logger zerolog.Logger) *Subscriber {
	s := newSubscriber(nil, cfg.Topic, cfg.QoS, recorder, collector, logger)

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetOnConnectHandler(func(paho.Client) {
			if !s.subscribed.Load() {
				return
			}

			if err := s.subscribe(); err != nil {
				s.logger.Error().Err(err).Msg("Failed to re-subscribe after reconnect")
			}
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			s.logger.Warn().Err(err).Msg("MQTT connection lost")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	s.client = paho.NewClient(opts)

	return s
}

// NewWithClient creates a subscriber on an existing client.
func NewWithClient(
	client Client, topic string, qos byte, recorder Recorder, collector metrics.Collector, logger zerolog.Logger) *Subscriber {
	return newSubscriber(client, topic, qos, recorder, collector, logger)
}

func newSubscriber(
	client Client, topic string, qos byte, recorder Recorder, collector metrics.Collector, logger zerolog.Logger) *Subscriber {
	if collector == nil {
		collector = metrics.NewNop()
	}

	return &Subscriber{
		client:   client,
		topic:    topic,
		qos:      qos,
		recorder: recorder,
		metrics:  collector,
		logger:   logger.With().Str("component", "mqtt").Str("topic", topic).Logger(),
		now:      time.Now,
	}
}

// Start connects and subscribes.
func (s *Subscriber) Start(_ context.Context) error {
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return errConnectTimeout
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", errConnect, err)
	}

	if err := s.subscribe(); err != nil {
		s.client.Disconnect(disconnectQuiet)

		return err
	}

	s.subscribed.Store(true)
	s.logger.Info().Uint8("qos", s.qos).Msg("Subscribed to heartbeat topic")

	return nil
}

// Stop unsubscribes and disconnects.
func (s *Subscriber) Stop(_ context.Context) error {
	if s.subscribed.Swap(false) {
		token := s.client.Unsubscribe(s.topic)
		if token.WaitTimeout(subscribeTimeout) && token.Error() != nil {
			s.logger.Warn().Err(token.Error()).Msg("Failed to unsubscribe")
		}
	}

	s.client.Disconnect(disconnectQuiet)

	return nil
}

func (s *Subscriber) subscribe() error {
	token := s.client.Subscribe(s.topic, s.qos, s.handleMessage)
	if !token.WaitTimeout(subscribeTimeout) {
		return fmt.Errorf("%w: %s", errSubscribeTimeout, s.topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w to %s: %w", errSubscribe, s.topic, err)
	}

	return nil
}

// handleMessage records one heartbeat. Bad payloads are logged and dropped.
func (s *Subscriber) handleMessage(_ paho.Client, msg paho.Message) {
	req, err := s.decode(msg)
	if err != nil {
		s.metrics.RecordHeartbeat(metrics.SourceMQTT, err)
		s.logger.Warn().Err(err).Str("msg_topic", msg.Topic()).Msg("Dropping heartbeat message")

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	_, err = s.recorder.RecordHeartbeat(ctx, req)
	s.metrics.RecordHeartbeat(metrics.SourceMQTT, err)

	if err != nil {
		s.logger.Warn().Err(err).Str("mac", req.MACAddress).Msg("Failed to record heartbeat")
	}
}

// decode parses a JSON heartbeat. A missing beat_time means "now" and a
// missing mac_address is taken from the topic wildcard.
func (s *Subscriber) decode(msg paho.Message) (*models.HeartbeatRequest, error) {
	var req models.HeartbeatRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
	}

	if req.MACAddress == "" {
		req.MACAddress = wildcardSegment(s.topic, msg.Topic())
	}

	if req.BeatTime == "" {
		req.BeatTime = s.now().UTC().Format(time.RFC3339Nano)
	}

	return &req, nil
}

// wildcardSegment returns the topic level matched by the first "+" in filter.
func wildcardSegment(filter, topic string) string {
	filterLevels := strings.Split(filter, "/")
	topicLevels := strings.Split(topic, "/")

	for i, level := range filterLevels {
		if level == "+" && i < len(topicLevels) {
			return topicLevels[i]
		}
	}

	return ""
}
