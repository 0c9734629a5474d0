package mqtt

import "errors"

var (
	errConnectTimeout   = errors.New("timed out connecting to MQTT broker")
	errConnect          = errors.New("failed to connect to MQTT broker")
	errSubscribe        = errors.New("failed to subscribe")
	errSubscribeTimeout = errors.New("timed out subscribing")
	errInvalidPayload   = errors.New("invalid heartbeat payload")
)
