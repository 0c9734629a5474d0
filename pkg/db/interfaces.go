// Package db pkg/db/interfaces.go
package db

import (
	"context"
	"time"

	"github.com/mfreeman451/beatradar/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/mfreeman451/beatradar/pkg/db Store

// Store is durable keyed storage for the latest heartbeat of each device.
//
// Every operation on a single MAC address is atomic. Lookups of an unknown
// address return ErrNotFound; every other failure wraps ErrDatabaseError.
type Store interface {
	// Upsert inserts a record or overwrites the mutable fields of an existing one.
	// The resulting status is always online.
	Upsert(ctx context.Context, mac, ip, serial string, beatTime time.Time) (*models.HeartbeatRecord, error)

	// Get returns the record for mac.
	Get(ctx context.Context, mac string) (*models.HeartbeatRecord, error)

	// List returns a snapshot of all records, most recent beat first.
	List(ctx context.Context, filter *models.ListFilter) ([]models.HeartbeatRecord, error)

	// SetStatus changes only the status field.
	SetStatus(ctx context.Context, mac string, status models.DeviceStatus) error

	// Update applies a partial update without touching the status.
	Update(ctx context.Context, mac string, fields *models.HeartbeatFields) (*models.HeartbeatRecord, error)

	// Delete removes the record for mac.
	Delete(ctx context.Context, mac string) error

	// Maintenance operations.

	Ping(ctx context.Context) error
	Close() error
}
