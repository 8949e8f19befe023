package gateway

import "sync"

const defaultSeenLimit = 50000

// seenCache tracks recently handled event ids so a replayed gateway
// event is processed at most once per session lifetime. Bounded: once
// the limit is hit the oldest recorded id is forgotten first.
type seenCache struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	limit int
}

func newSeenCache(limit int) *seenCache {
	if limit <= 0 {
		limit = defaultSeenLimit
	}
	return &seenCache{
		ids:   make(map[string]struct{}, limit),
		limit: limit,
	}
}

// seenAndRecord atomically checks whether id was handled before and
// records it if not. Returns true when id was already seen.
func (c *seenCache) seenAndRecord(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ids[id]; ok {
		return true
	}
	if len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.ids, oldest)
	}
	c.ids[id] = struct{}{}
	c.order = append(c.order, id)
	return false
}

func (c *seenCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}
