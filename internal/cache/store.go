// Package cache provides a key/value store with a fixed time-to-live and an
// http.RoundTripper that serves GET responses cache-aside through it.
package cache

import (
	"crypto/md5"
	"encoding/hex"
)

// Store is a minimal key/value cache holding raw bytes. The TTL is a
// property of the store, fixed at construction: Get reports a miss for any
// entry older than the TTL, even though the entry is never explicitly
// removed. Set always overwrites.
//
// Backends must be safe for concurrent readers and writers; last writer
// wins on key collision.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Key derives the cache key for a request URL. Distinct query strings
// produce distinct keys. md5 is used as a stable fingerprint, not for
// security; collisions are negligible at this scale.
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
