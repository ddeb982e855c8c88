package cache

import "time"

// Cache is a byte-oriented TTL cache for read-mostly reference data.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}
