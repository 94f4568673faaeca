package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront-backend/pkg/clients"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// CartRepo хранит корзину целиком одним JSON-значением. Каждая запись
// продлевает TTL на CartTTL.
type CartRepo struct {
	client *clients.RedisClient
	conv   converter.CartConverter
	cfg    *cfg.RedisCfg
}

func NewCartRepo(client *clients.RedisClient, conv converter.CartConverter, cfg *cfg.RedisCfg) *CartRepo {
	return &CartRepo{client: client, conv: conv, cfg: cfg}
}

func (c *CartRepo) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	data, err := c.client.Client.Get(ctx, cartKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return domain.NewCart(ownerID), nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.CartRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cart, err := c.conv.ToEntity(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cart.OwnerID = ownerID

	return cart, nil
}

// Save записывает корзину. Пустая корзина удаляет ключ.
func (c *CartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	if len(cart.Lines) == 0 {
		return c.Delete(ctx, cart.OwnerID)
	}

	data, err := json.Marshal(c.conv.ToRedisModel(cart))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, cartKey(cart.OwnerID), data, c.cfg.CartTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CartRepo) Delete(ctx context.Context, ownerID string) error {
	if err := c.client.Client.Del(ctx, cartKey(ownerID)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func cartKey(ownerID string) string {
	return cartKeyPrefix + ownerID
}
