package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddSameProductTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "1", Quantity: 1})
	require.NoError(t, err)
	line, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "1", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	cart, err := f.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "2999.97", cart.Total.StringFixed(2))
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "iPhone 13 Pro", cart.Lines[0].Product.Name)
}

func TestCart_AddItemErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "missing", Quantity: 1})
	require.ErrorIs(t, err, e.ErrProductNotFound)

	_, err = f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "1", Quantity: 0})
	require.ErrorIs(t, err, e.ErrInvalidQuantity)

	_, err = f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "", ProductID: "1", Quantity: 1})
	require.ErrorIs(t, err, e.ErrUnauthorized)

	cart, err := f.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCart_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "2", Quantity: 1})
	require.NoError(t, err)

	f.setPrice(t, "2", "1.00")

	cart, err := f.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "799.99", cart.Total.StringFixed(2))
	assert.Equal(t, "1.00", cart.Lines[0].Product.Price.StringFixed(2))
}

func TestCart_SetQuantityBelowOneRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	line, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "1", Quantity: 1})
	require.NoError(t, err)

	res, err := f.carts.SetQuantity(ctx, &usecase.SetCartQuantityReq{OwnerID: "s1", LineID: line.ID, Quantity: 4})
	require.NoError(t, err)
	assert.False(t, res.Removed)
	assert.Equal(t, 4, res.Line.Quantity)

	res, err = f.carts.SetQuantity(ctx, &usecase.SetCartQuantityReq{OwnerID: "s1", LineID: line.ID, Quantity: 0})
	require.NoError(t, err)
	assert.True(t, res.Removed)

	_, err = f.carts.SetQuantity(ctx, &usecase.SetCartQuantityReq{OwnerID: "s1", LineID: line.ID, Quantity: 1})
	require.ErrorIs(t, err, e.ErrCartLineNotFound)
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	line, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "1", Quantity: 1})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "3", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, f.carts.RemoveItem(ctx, "s1", "missing"))
	require.NoError(t, f.carts.RemoveItem(ctx, "s1", line.ID))
	require.NoError(t, f.carts.RemoveItem(ctx, "s1", line.ID))

	cart, err := f.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)

	require.NoError(t, f.carts.Clear(ctx, "s1"))
	cart, err = f.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Total.IsZero())
}

func TestCart_ConcurrentAddsAreSerialised(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "4", Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := f.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, workers, cart.ItemCount)
}
