package progress

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Fetcher performs the actual network fetches behind the cache.
// *api.Client satisfies it.
type Fetcher interface {
	FetchRealtime(ctx context.Context) (*Snapshot, error)
	FetchDashboard(ctx context.Context) (*Dashboard, error)
}

// LocalState is the durable per-user state the cache wipes on Clear:
// per-message accuracy results and the streak record.
type LocalState interface {
	ClearAccuracyCache(ctx context.Context) error
	DeleteStreak(ctx context.Context) error
}

type entry[T any] struct {
	value     *T
	fetchedAt time.Time
}

func (e entry[T]) fresh(now time.Time, ttl time.Duration) bool {
	return e.value != nil && now.Sub(e.fetchedAt) < ttl
}

// Cache holds the two most recent server snapshots with independent TTLs.
// Freshness is evaluated lazily on each get; there is no background
// refresh. A failed fetch leaves the stale entry in place and returns the
// error, so callers can fall back to last known good state.
type Cache struct {
	mu        sync.Mutex
	fetcher   Fetcher
	local     LocalState // may be nil
	clock     clockwork.Clock
	timings   Timings
	realtime  entry[Snapshot]
	dashboard entry[Dashboard]
}

// NewCache creates a Cache. local may be nil when no durable state is
// attached (tests, read-only tooling).
func NewCache(fetcher Fetcher, local LocalState, clock clockwork.Clock, timings Timings) *Cache {
	return &Cache{
		fetcher: fetcher,
		local:   local,
		clock:   clock,
		timings: timings,
	}
}

// Realtime returns the realtime snapshot, serving the cached value while
// fresh unless forceRefresh is set.
func (c *Cache) Realtime(ctx context.Context, forceRefresh bool) (*Snapshot, error) {
	c.mu.Lock()
	if !forceRefresh && c.realtime.fresh(c.clock.Now(), c.timings.RealtimeTTL) {
		v := c.realtime.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	snap, err := c.fetcher.FetchRealtime(ctx)
	if err != nil {
		return nil, err
	}

	// Atomic replace: value and timestamp move together, last write wins.
	c.mu.Lock()
	c.realtime = entry[Snapshot]{value: snap, fetchedAt: c.clock.Now()}
	c.mu.Unlock()
	return snap, nil
}

// Dashboard returns the dashboard snapshot, serving the cached value while
// fresh unless forceRefresh is set.
func (c *Cache) Dashboard(ctx context.Context, forceRefresh bool) (*Dashboard, error) {
	c.mu.Lock()
	if !forceRefresh && c.dashboard.fresh(c.clock.Now(), c.timings.DashboardTTL) {
		v := c.dashboard.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	dash, err := c.fetcher.FetchDashboard(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.dashboard = entry[Dashboard]{value: dash, fetchedAt: c.clock.Now()}
	c.mu.Unlock()
	return dash, nil
}

// Invalidate empties both entries without touching durable state. The
// polling engine calls it at the start of a cycle: assume stale until
// proven otherwise.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.realtime = entry[Snapshot]{}
	c.dashboard = entry[Dashboard]{}
	c.mu.Unlock()
}

// Clear resets both entries and removes the persisted per-message accuracy
// cache and the streak record. Used on logout.
func (c *Cache) Clear(ctx context.Context) error {
	c.Invalidate()
	if c.local == nil {
		return nil
	}
	if err := c.local.ClearAccuracyCache(ctx); err != nil {
		return err
	}
	return c.local.DeleteStreak(ctx)
}
