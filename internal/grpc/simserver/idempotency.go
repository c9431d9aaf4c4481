package simserver

import (
	"sync"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	idempotencyTTL       = 24 * time.Hour
	idempotencyCleanupAt = 1000
)

// idempotencyKey scopes a client key to the method it was sent to
type idempotencyKey struct {
	Method string
	Key    string
}

type idempotencyEntry struct {
	response  *structpb.Struct
	createdAt time.Time
}

// IdempotencyManager caches responses so a retried request with the same
// key neither reruns the simulation nor saves a second copy
type IdempotencyManager struct {
	cache map[idempotencyKey]*idempotencyEntry
	mu    sync.RWMutex
	now   func() time.Time
}

// NewIdempotencyManager creates a new idempotency manager
func NewIdempotencyManager() *IdempotencyManager {
	return &IdempotencyManager{
		cache: make(map[idempotencyKey]*idempotencyEntry),
		now:   time.Now,
	}
}

// Check returns the cached response for key, or nil
func (im *IdempotencyManager) Check(method, key string) *structpb.Struct {
	if key == "" {
		return nil
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[idempotencyKey{Method: method, Key: key}]
	if !exists || im.now().Sub(entry.createdAt) > idempotencyTTL {
		return nil
	}
	return entry.response
}

// Store caches resp under key
func (im *IdempotencyManager) Store(method, key string, resp *structpb.Struct) {
	if key == "" {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[idempotencyKey{Method: method, Key: key}] = &idempotencyEntry{
		response:  resp,
		createdAt: im.now(),
	}
	if len(im.cache) > idempotencyCleanupAt {
		im.cleanupOldEntriesLocked()
	}
}

// cleanupOldEntriesLocked removes expired entries. Must be called with mu held.
func (im *IdempotencyManager) cleanupOldEntriesLocked() {
	cutoff := im.now().Add(-idempotencyTTL)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
