package utils

import "time"

// RedisCache adapts the package cache helpers to the narrow Cache interface
// the ranking engine accepts, so services stay testable without redis.
type RedisCache struct{}

// GetBytes returns cached bytes for a key.
func (RedisCache) GetBytes(key string) ([]byte, bool) {
	return CacheGetBytes(key)
}

// SetJSON marshals v and stores it under key with the given TTL.
func (RedisCache) SetJSON(key string, v interface{}, ttl time.Duration) {
	CacheSetJSON(key, v, ttl)
}
