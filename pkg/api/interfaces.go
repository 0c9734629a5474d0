package api

import (
	"context"

	"github.com/mfreeman451/beatradar/pkg/models"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/mfreeman451/beatradar/pkg/api HeartbeatService,MonitorController,HealthChecker

// HeartbeatService is the ingestion and query surface exposed over HTTP.
type HeartbeatService interface {
	RecordHeartbeat(ctx context.Context, req *models.HeartbeatRequest) (*models.HeartbeatRecord, error)
	GetHeartbeat(ctx context.Context, mac string) (*models.HeartbeatRecord, error)
	ListHeartbeats(ctx context.Context, filter *models.ListFilter) ([]models.HeartbeatRecord, error)
	UpdateHeartbeat(ctx context.Context, mac string, update *models.HeartbeatUpdate) (*models.HeartbeatRecord, []string, error)
	DeleteHeartbeat(ctx context.Context, mac string) error
}

// MonitorController is the runtime control surface of the liveness monitor.
type MonitorController interface {
	Enable()
	Disable()
	Restart()
	Status() models.MonitorStatus
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
