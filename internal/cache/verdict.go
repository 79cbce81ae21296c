package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/veracitylab/veracity/internal/model"
)

// DefaultTTL bounds how long a cached verdict stays valid.
const DefaultTTL = 5 * time.Minute

// Key generates the content-addressed cache key for a response text.
// The exact bytes are hashed: texts differing by whitespace are
// distinct entries by design.
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "veracity:v1:" + hex.EncodeToString(hash[:])
}

// VerdictCache memoizes verification verdicts by response text.
//
// Entries expire lazily: an expired entry is treated as absent and
// overwritten on the next miss, never purged by a background timer.
// A singleflight group guarantees at most one in-flight computation
// per key; a second caller missing on the same key blocks until the
// first result is stored and reads it. Reads of different keys never
// block each other.
type VerdictCache struct {
	entries *gocache.Cache
	group   singleflight.Group
	ttl     time.Duration
}

// NewVerdictCache creates a verdict cache with the given TTL.
func NewVerdictCache(ttl time.Duration) *VerdictCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	// Cleanup interval 0 disables the janitor; expiry stays lazy.
	return &VerdictCache{
		entries: gocache.New(ttl, 0),
		ttl:     ttl,
	}
}

// GetOrCompute returns the cached verdict for text, or invokes compute
// exactly once per miss per key, stores the result, and returns it.
// A failed or cancelled compute stores nothing and leaves the key
// absent for a future attempt.
func (c *VerdictCache) GetOrCompute(ctx context.Context, text string, compute func(context.Context) (*model.VerificationVerdict, error)) (*model.VerificationVerdict, error) {
	key := Key(text)

	if v, found := c.entries.Get(key); found {
		return v.(*model.VerificationVerdict), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: another caller may have stored while we queued.
		if v, found := c.entries.Get(key); found {
			return v, nil
		}

		verdict, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		c.entries.Set(key, verdict, c.ttl)
		return verdict, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*model.VerificationVerdict), nil
}

// Flush drops all entries. Used by tests and manual cache resets.
func (c *VerdictCache) Flush() {
	c.entries.Flush()
}
