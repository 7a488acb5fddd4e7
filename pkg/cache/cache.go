package cache

import "time"

// StatusCache caches provider status-query payloads for a short TTL so
// repeat polls for the same checkout request stay under the provider's
// query ceiling.
type StatusCache interface {
	Get(key string) (map[string]any, error)
	Set(key string, payload map[string]any, ttl time.Duration) error
	Delete(key string) error
}
