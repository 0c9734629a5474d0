// Package errors pkg/db/errors.go provides errors for the db package.

package db

import "errors"

var (
	// Core store errors.

	// ErrNotFound is returned when no heartbeat record exists for a MAC address.
	ErrNotFound = errors.New("heartbeat record not found")
	// ErrDatabaseError wraps every persistence failure that is not ErrNotFound.
	ErrDatabaseError = errors.New("database error")
	ErrStoreClosed   = errors.New("store closed")

	// Operation errors.

	errFailedToBeginTx   = errors.New("failed to begin transaction")
	errFailedToScan      = errors.New("failed to scan")
	errFailedToQuery     = errors.New("failed to query")
	errFailedToUpsert    = errors.New("failed to upsert heartbeat")
	errFailedToUpdate    = errors.New("failed to update heartbeat")
	errFailedToDelete    = errors.New("failed to delete heartbeat")
	errFailedToInit      = errors.New("failed to initialize schema")
	errFailedToEnableWAL = errors.New("failed to enable WAL mode")
	errFailedOpenDB      = errors.New("failed to open database")
	errInvalidStatus     = errors.New("invalid device status")
)
