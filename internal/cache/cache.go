// Package cache memoizes resolve results so repeated lookups of the
// same handle inside the TTL window do not hit the providers again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a handle. Handles are compared
// case-insensitively by the platform, so the key is too.
func Key(handle string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(handle)))
	return "birdwatch:v1:" + hex.EncodeToString(hash[:])
}
