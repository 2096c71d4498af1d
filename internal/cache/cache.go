// Package cache stores generated narratives so identical respondent data
// does not re-bill the narrative provider.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for narrative caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// NarrativeKey derives a cache key from the catalog hash, the report
// context and the provider/model that would generate the text.
func NarrativeKey(catalogHash, contextFingerprint, provider, model string) string {
	sum := sha256.Sum256([]byte(catalogHash + "|" + contextFingerprint + "|" + provider + "|" + model))
	return "relato:v1:" + hex.EncodeToString(sum[:])
}
