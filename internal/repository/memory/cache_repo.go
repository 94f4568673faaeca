package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
)

const productKeyPrefix = "product:"

type cacheItem struct {
	value      domain.Product
	expiration int64
}

// CacheRepo кэширует товары в памяти с TTL. Просроченные записи не отдаются
// и вычищаются при записи.
type CacheRepo struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
	now   func() time.Time
}

func NewCacheRepo(ttl time.Duration) *CacheRepo {
	return &CacheRepo{
		items: make(map[string]cacheItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *CacheRepo) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now().UnixNano()
	result := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		item, found := c.items[productKeyPrefix+id]
		if !found || now > item.expiration {
			continue
		}
		result[id] = cloneProduct(item.value)
	}
	return result, nil
}

func (c *CacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.cleanupExpired(now.UnixNano())

	expiration := now.Add(c.ttl).UnixNano()
	for _, p := range products {
		c.items[productKeyPrefix+p.ID] = cacheItem{
			value:      cloneProduct(p),
			expiration: expiration,
		}
	}
	return nil
}

func (c *CacheRepo) DeleteProducts(_ context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.items, productKeyPrefix+id)
	}
	return nil
}

// Size возвращает число записей, включая ещё не вычищенные просроченные.
func (c *CacheRepo) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *CacheRepo) cleanupExpired(now int64) {
	for key, item := range c.items {
		if now > item.expiration {
			delete(c.items, key)
		}
	}
}
