package store

import (
	"context"
	"time"

	"github.com/prepwise/prepwise/server/internal/model"
)

// CacheEntry is one persisted discovery result. Expiry is evaluated on read:
// an entry older than its TTL is treated as absent.
type CacheEntry struct {
	Key        string
	Payload    []byte
	CreatedAt  time.Time
	TTLMinutes int
}

// Store exposes persistence operations required by the discovery and prep
// services. Implementations live under internal/store/<driver>/.
type Store interface {
	Discovery() DiscoveryCache
	Artifacts() Artifacts
}

// DiscoveryCache is a key-value store with TTL semantics for assembled
// discovery results.
type DiscoveryCache interface {
	// Get returns (nil, nil) when the key is absent or expired.
	Get(ctx context.Context, key string) (*CacheEntry, error)
	// Put overwrites any existing entry for the key.
	Put(ctx context.Context, key string, payload []byte, ttlMinutes int) error
	// Clear removes all discovery cache entries.
	Clear(ctx context.Context) error
}

// Artifacts is the unconditional-upsert store for generated summaries,
// keyed by source item id. No TTL; callers needing fresh data clear it.
type Artifacts interface {
	// Get returns (nil, nil) when no artifact exists for the item.
	Get(ctx context.Context, itemID string) (*model.PreparationArtifact, error)
	Upsert(ctx context.Context, a *model.PreparationArtifact) error
	Clear(ctx context.Context) error
}
