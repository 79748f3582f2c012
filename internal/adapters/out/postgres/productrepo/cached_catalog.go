package productrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 1024

// CachedCatalog keeps recently priced products in memory. Misses are fetched from
// the wrapped catalog in one batch. Prices are captured on the order item when it
// is added, so a stale cached price only affects baskets built after a price change
// until the entry is evicted or Purge is called.
type CachedCatalog struct {
	next  ports.ProductCatalog
	cache *lru.Cache[kernel.UUID, ports.Product]
}

func NewCachedCatalog(next ports.ProductCatalog, size int) *CachedCatalog {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[kernel.UUID, ports.Product](size)
	if err != nil {
		cache, _ = lru.New[kernel.UUID, ports.Product](defaultCacheSize)
	}
	return &CachedCatalog{next: next, cache: cache}
}

func (c *CachedCatalog) FindByIDs(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Product, error) {
	result := make(map[kernel.UUID]ports.Product, len(ids))
	var missing []kernel.UUID
	for _, id := range ids {
		if p, ok := c.cache.Get(id); ok {
			result[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := c.next.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, p := range fetched {
		c.cache.Add(id, p)
		result[id] = p
	}
	return result, nil
}

// Purge drops every cached entry.
func (c *CachedCatalog) Purge() {
	c.cache.Purge()
}

func (c *CachedCatalog) Len() int {
	return c.cache.Len()
}
