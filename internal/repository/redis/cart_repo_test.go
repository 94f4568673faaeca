package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront-backend/pkg/clients"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *clients.RedisClient, *cfg.RedisCfg) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisCfg := &cfg.RedisCfg{
		Addr:       mr.Addr(),
		CartTTL:    time.Hour,
		SessionTTL: 30 * time.Minute,
	}

	client := clients.NewRedisClient(redisCfg)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client, redisCfg
}

func TestCartRepo_SaveAndGet(t *testing.T) {
	mr, client, redisCfg := newTestRedis(t)
	repo := NewCartRepo(client, converter.CartConverter{}, redisCfg)
	ctx := context.Background()

	empty, err := repo.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "sess", empty.OwnerID)
	assert.Empty(t, empty.Lines)

	cart := domain.NewCart("sess")
	_, err = cart.AddItem(domain.Product{ID: "1", Price: decimal.RequireFromString("999.99")}, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(domain.Product{ID: "3", Price: decimal.RequireFromString("5.50")}, 1)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, cart))
	assert.Equal(t, time.Hour, mr.TTL(cartKey("sess")))

	got, err := repo.Get(ctx, "sess")
	require.NoError(t, err)
	decimalEq := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	assert.Empty(t, cmp.Diff(cart, got, decimalEq))
}

func TestCartRepo_EmptyCartDeletesKey(t *testing.T) {
	mr, client, redisCfg := newTestRedis(t)
	repo := NewCartRepo(client, converter.CartConverter{}, redisCfg)
	ctx := context.Background()

	cart := domain.NewCart("sess")
	line, err := cart.AddItem(domain.Product{ID: "1", Price: decimal.RequireFromString("1.00")}, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, cart))
	require.True(t, mr.Exists(cartKey("sess")))

	cart.RemoveItem(line.ID)
	require.NoError(t, repo.Save(ctx, cart))
	assert.False(t, mr.Exists(cartKey("sess")))
}

func TestCartRepo_ExpiredCartIsEmpty(t *testing.T) {
	mr, client, redisCfg := newTestRedis(t)
	repo := NewCartRepo(client, converter.CartConverter{}, redisCfg)
	ctx := context.Background()

	cart := domain.NewCart("sess")
	_, err := cart.AddItem(domain.Product{ID: "1", Price: decimal.RequireFromString("1.00")}, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, cart))

	mr.FastForward(time.Hour + time.Second)

	got, err := repo.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestCartRepo_CorruptValue(t *testing.T) {
	mr, client, redisCfg := newTestRedis(t)
	repo := NewCartRepo(client, converter.CartConverter{}, redisCfg)

	require.NoError(t, mr.Set(cartKey("sess"), "{not json"))

	_, err := repo.Get(context.Background(), "sess")
	assert.Error(t, err)
}
