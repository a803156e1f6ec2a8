package cache

import "time"

// Cache is an advisory byte cache. Dashboards use it to avoid
// recomputing aggregates; correctness never depends on it, a miss just
// recomputes. Invalidate drops every key under a prefix.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Invalidate(prefix string)
}
