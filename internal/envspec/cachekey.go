package envspec

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKey derives the environment build cache key from the interpreter
// version and the raw manifest content. The version is mixed into the hash
// preimage with a delimiter so keys can never collide across interpreter
// versions, even for identical manifests.
func CacheKey(interpreter string, manifest []byte) string {
	h := sha256.New()
	h.Write([]byte(interpreter))
	h.Write([]byte{0})
	h.Write(manifest)
	return hex.EncodeToString(h.Sum(nil))
}

// ShortKey returns the 12-character prefix of a cache key, used for image
// tags and log lines.
func ShortKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12]
}
