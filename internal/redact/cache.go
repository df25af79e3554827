package redact

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheCapacity bounds the redaction cache. Repeated CLI lines are common,
// so a modest LRU pays for itself quickly.
const cacheCapacity = 1000

// redactionCache memoizes Text output. Entries are keyed by a one-way hash
// of the input, never the raw input, so secrets do not persist as cache
// keys. Values derive only from already-redacted output: a hash collision
// can return the wrong redacted string, but never an unredacted one.
type redactionCache struct {
	entries *lru.Cache[string, string]
}

func newRedactionCache() *redactionCache {
	entries, err := lru.New[string, string](cacheCapacity)
	if err != nil {
		// Only reachable with a non-positive capacity.
		panic(err)
	}
	return &redactionCache{entries: entries}
}

func (c *redactionCache) get(key string) (string, bool) {
	return c.entries.Get(key)
}

func (c *redactionCache) put(key, redacted string) {
	c.entries.Add(key, redacted)
}

func (c *redactionCache) clear() {
	c.entries.Purge()
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

var textCache = newRedactionCache()

// ClearCache drops all memoized redactions. The CLI invokes this exactly
// once at the end of every run, success or failure, from a deferred block.
func ClearCache() {
	textCache.clear()
}
