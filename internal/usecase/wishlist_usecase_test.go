package usecase_test

import (
	"context"
	"testing"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_SetSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.wishlist.Add(ctx, "u1", "3"))
	require.NoError(t, f.wishlist.Add(ctx, "u1", "3"))

	items, err := f.wishlist.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "MacBook Pro 14", items[0].Product.Name)

	ok, err := f.wishlist.Contains(ctx, "u1", "3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.wishlist.Contains(ctx, "u2", "3")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.wishlist.Remove(ctx, "u1", "3"))
	require.NoError(t, f.wishlist.Remove(ctx, "u1", "3"))

	items, err = f.wishlist.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlist_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	err := f.wishlist.Add(context.Background(), "u1", "missing")
	require.ErrorIs(t, err, e.ErrProductNotFound)
}
