package market

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type royaltyCacheKey struct {
	collection string
	item       uint64
	salePrice  uint64
}

type royaltyCacheEntry struct {
	recipient Address
	amount    uint64
}

// CachingRoyaltySource memoizes successful royalty lookups keyed by
// (collection, item, salePrice). Failed lookups are not cached: the source
// may recover by the next sale. Cached entries assume a collection's
// royalty terms are stable; whoever changes them must call
// InvalidateCollection or the cache keeps serving the old split.
type CachingRoyaltySource struct {
	source RoyaltySource
	cache  *lru.Cache[royaltyCacheKey, royaltyCacheEntry]
}

// NewCachingRoyaltySource wraps a royalty source with an LRU cache of the
// given size.
func NewCachingRoyaltySource(source RoyaltySource, size int) (*CachingRoyaltySource, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[royaltyCacheKey, royaltyCacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &CachingRoyaltySource{source: source, cache: cache}, nil
}

// RoyaltyInfo implements RoyaltySource.
func (c *CachingRoyaltySource) RoyaltyInfo(view StateView, collection string, item uint64, salePrice uint64) (Address, uint64, error) {
	key := royaltyCacheKey{collection: collection, item: item, salePrice: salePrice}
	if entry, ok := c.cache.Get(key); ok {
		return entry.recipient, entry.amount, nil
	}
	recipient, amount, err := c.source.RoyaltyInfo(view, collection, item, salePrice)
	if err != nil {
		return "", 0, err
	}
	c.cache.Add(key, royaltyCacheEntry{recipient: recipient, amount: amount})
	return recipient, amount, nil
}

// InvalidateCollection drops every cached entry for the collection, forcing
// the next lookup back to the source.
func (c *CachingRoyaltySource) InvalidateCollection(collection string) {
	for _, key := range c.cache.Keys() {
		if key.collection == collection {
			c.cache.Remove(key)
		}
	}
}
