package monitor

import "errors"

var (
	// ErrStatusWrite is logged when one device's status write fails during a cycle.
	ErrStatusWrite = errors.New("failed to write device status")
	// ErrListRecords aborts a single cycle; the loop keeps scheduling.
	ErrListRecords = errors.New("failed to list heartbeat records")

	errCycleAborted   = errors.New("scan cycle aborted")
	errCyclePanic     = errors.New("scan cycle panicked")
	errInvalidSetting = errors.New("invalid monitor setting")
)
