package notify

import "github.com/puzpuzpuz/xsync/v4"

// Cache stores per-meetup snapshots between change events. Passing it
// in (rather than a package-level map) keeps the engine testable and
// leaves room for a persistent backing store later.
type Cache interface {
	Get(meetupID string) (Snapshot, bool)
	Set(meetupID string, snap Snapshot)
	Evict(meetupID string)
}

// MapCache is the in-memory production Cache. Entries live until the
// meetup is removed or purged; a restart simply starts empty and the
// engine re-baselines.
type MapCache struct {
	m *xsync.Map[string, Snapshot]
}

// NewMapCache creates an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{m: xsync.NewMap[string, Snapshot]()}
}

func (c *MapCache) Get(meetupID string) (Snapshot, bool) {
	return c.m.Load(meetupID)
}

func (c *MapCache) Set(meetupID string, snap Snapshot) {
	c.m.Store(meetupID, snap)
}

func (c *MapCache) Evict(meetupID string) {
	c.m.Delete(meetupID)
}
