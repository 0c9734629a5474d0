package heartbeat

import "errors"

var (
	// ErrInvalidHeartbeat marks input rejected before it reaches the store.
	ErrInvalidHeartbeat = errors.New("invalid heartbeat")

	errEmptyMAC      = errors.New("mac_address is required")
	errMalformedMAC  = errors.New("malformed mac_address")
	errMalformedIP   = errors.New("malformed ip_address")
	errMalformedTime = errors.New("beat_time must be RFC 3339 with a UTC offset")
	errNoFields      = errors.New("no fields to update")
	errNilRequest    = errors.New("empty request")
)
