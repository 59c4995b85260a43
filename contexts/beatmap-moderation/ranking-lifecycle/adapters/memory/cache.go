package memory

import (
	"sync"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
)

// Cache is the process-local status mirror keyed by content fingerprint.
// Entries live until overwritten; eviction can be layered on without the
// state machine noticing since it only speaks the StatusCache port.
// Writes are ordered by snapshot commit timestamp, so a read-miss fill
// racing a transition can never bury the transition's newer snapshot.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entities.StatusSnapshot
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]entities.StatusSnapshot)}
}

func (c *Cache) Get(md5 string) (entities.StatusSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot, ok := c.entries[md5]
	return snapshot, ok
}

func (c *Cache) Invalidate(md5 string, snapshot entities.StatusSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[md5]; ok && existing.ChangedAt.After(snapshot.ChangedAt) {
		return
	}
	c.entries[md5] = snapshot
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
