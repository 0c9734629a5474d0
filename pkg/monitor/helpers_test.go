package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfreeman451/beatradar/pkg/db"
	"github.com/mfreeman451/beatradar/pkg/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// countingStore wraps a real store, counts calls and lets tests inject
// behaviour into List.
type countingStore struct {
	db.Store

	lists     atomic.Int64
	setStatus atomic.Int64

	mu     sync.Mutex
	onList func(ctx context.Context) error
}

func newCountingStore() *countingStore {
	return &countingStore{Store: db.NewMemoryStore()}
}

func (s *countingStore) setOnList(fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onList = fn
}

func (s *countingStore) List(ctx context.Context, filter *models.ListFilter) ([]models.HeartbeatRecord, error) {
	s.lists.Add(1)

	s.mu.Lock()
	hook := s.onList
	s.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}

	return s.Store.List(ctx, filter)
}

func (s *countingStore) SetStatus(ctx context.Context, mac string, status models.DeviceStatus) error {
	s.setStatus.Add(1)

	return s.Store.SetStatus(ctx, mac, status)
}
