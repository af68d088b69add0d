package envspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey_Deterministic(t *testing.T) {
	manifest := []byte("numpy>=1.21\nscipy==1.9.3\n")

	k1 := CacheKey("3.10", manifest)
	k2 := CacheKey("3.10", manifest)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestCacheKey_ManifestSensitive(t *testing.T) {
	k1 := CacheKey("3.10", []byte("numpy>=1.21\n"))
	k2 := CacheKey("3.10", []byte("numpy>=1.22\n"))

	assert.NotEqual(t, k1, k2)
}

func TestCacheKey_InterpreterSensitive(t *testing.T) {
	manifest := []byte("numpy>=1.21\n")

	assert.NotEqual(t, CacheKey("3.9", manifest), CacheKey("3.10", manifest))
}

// The version is delimited from the manifest content, so shifting bytes
// between the two fields must not produce the same key.
func TestCacheKey_NoBoundaryCollision(t *testing.T) {
	k1 := CacheKey("3.1", []byte("0numpy\n"))
	k2 := CacheKey("3.10", []byte("numpy\n"))

	assert.NotEqual(t, k1, k2)
}

func TestShortKey(t *testing.T) {
	assert.Equal(t, "abcdef123456", ShortKey("abcdef1234567890"))
	assert.Equal(t, "abc", ShortKey("abc"))
}
