// Package cache provides the lookup cache used during verification. Keys
// are derived from normalized queries so the same question asked twice in
// one run costs one network call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const keyPrefix = "veracity:v1:"

// Cache stores lookup results for the duration of an analysis run.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Key builds a cache key from a lookup query. Queries differing only in
// case or surrounding whitespace share a key.
func Key(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return keyPrefix + hex.EncodeToString(sum[:])
}
