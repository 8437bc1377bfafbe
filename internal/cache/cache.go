package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"poe-overlay/internal/item"
	"poe-overlay/internal/textutil"

	"github.com/rs/zerolog/log"
)

// ErrMiss is returned by a Store that has no live entry for a hash.
var ErrMiss = errors.New("cache miss")

// Entry is one cached parse result. A zero ExpiresAt never expires.
type Entry struct {
	Language  string
	Item      *item.Item
	ExpiresAt time.Time
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Store persists entries behind the in-memory layer.
type Store interface {
	Load(ctx context.Context, hash string) (Entry, error)
	Save(ctx context.Context, hash string, e Entry) error
	LoadAll(ctx context.Context) (map[string]Entry, error)
}

// ItemCache provides in-memory + optional persistent caching of parsed items.
// Items are stored and returned as deep copies.
type ItemCache struct {
	store      Store
	expiration Expiration
	now        func() time.Time

	mu     sync.RWMutex
	memory map[string]Entry // hash → entry
}

// NewItemCache creates a cache. store may be nil for a memory-only cache.
func NewItemCache(store Store, expiration Expiration) *ItemCache {
	return &ItemCache{
		store:      store,
		expiration: expiration,
		now:        time.Now,
		memory:     make(map[string]Entry),
	}
}

// Key is the cache key of an item text in a client language.
func Key(language, text string) string {
	return textutil.Hash(language, text)
}

// Get retrieves a cached item. Returns nil and false if not found or expired.
func (c *ItemCache) Get(ctx context.Context, language, text string) (*item.Item, bool) {
	hash := Key(language, text)
	now := c.now()

	// Check in-memory cache first.
	c.mu.RLock()
	e, ok := c.memory[hash]
	c.mu.RUnlock()
	if ok {
		if !e.expired(now) {
			return e.Item.Clone(), true
		}
		c.mu.Lock()
		delete(c.memory, hash)
		c.mu.Unlock()
	}

	if c.store == nil {
		return nil, false
	}
	e, err := c.store.Load(ctx, hash)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Warn().Err(err).Msg("Cache store lookup failed")
		}
		return nil, false
	}
	if e.expired(now) {
		return nil, false
	}

	c.mu.Lock()
	c.memory[hash] = e
	c.mu.Unlock()

	return e.Item.Clone(), true
}

// Set stores an item in memory and in the store, if any.
func (c *ItemCache) Set(ctx context.Context, language, text string, it *item.Item) error {
	hash := Key(language, text)
	e := Entry{Language: language, Item: it.Clone()}
	if d := c.expiration.Duration(); d > 0 {
		e.ExpiresAt = c.now().Add(d)
	}

	c.mu.Lock()
	c.memory[hash] = e
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.Save(ctx, hash, e); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Preload loads every live stored entry into memory.
func (c *ItemCache) Preload(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	entries, err := c.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	now := c.now()
	loaded := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for hash, e := range entries {
		if e.expired(now) {
			continue
		}
		c.memory[hash] = e
		loaded++
	}

	log.Info().Int("count", loaded).Msg("Preloaded item cache")
	return nil
}

// Len returns the number of entries held in memory.
func (c *ItemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}
