package domain

import (
	"math"
	"testing"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItemMergesLines(t *testing.T) {
	catalog := testCatalog()
	iphone := catalog[0]
	cart := NewCart("session-1")

	first, err := cart.AddItem(iphone, 1)
	require.NoError(t, err)

	second, err := cart.AddItem(iphone, 2)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.True(t, cart.Total().Equal(iphone.Price.Mul(decimal.NewFromInt(3))))
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_AddItemRejectsNonPositive(t *testing.T) {
	cart := NewCart("session-1")

	for _, q := range []int{0, -1} {
		_, err := cart.AddItem(testCatalog()[0], q)
		require.ErrorIs(t, err, e.ErrInvalidQuantity)
	}
	assert.Empty(t, cart.Lines)
}

func TestCart_QuantityUpperBound(t *testing.T) {
	iphone := testCatalog()[0]
	cart := NewCart("session-1")

	_, err := cart.AddItem(iphone, math.MaxInt)
	require.ErrorIs(t, err, e.ErrInvalidQuantity)
	assert.Empty(t, cart.Lines)

	line, err := cart.AddItem(iphone, MaxLineQuantity)
	require.NoError(t, err)

	_, err = cart.AddItem(iphone, 1)
	require.ErrorIs(t, err, e.ErrInvalidQuantity)
	assert.Equal(t, MaxLineQuantity, cart.Lines[0].Quantity)
	assert.Equal(t, MaxLineQuantity, cart.ItemCount())
	assert.True(t, cart.Total().IsPositive())

	_, _, err = cart.SetQuantity(line.ID, MaxLineQuantity+1)
	require.ErrorIs(t, err, e.ErrInvalidQuantity)
	assert.Equal(t, MaxLineQuantity, cart.Lines[0].Quantity)
}

func TestCart_PriceSnapshot(t *testing.T) {
	product := testCatalog()[1]
	cart := NewCart("session-1")

	_, err := cart.AddItem(product, 1)
	require.NoError(t, err)

	product.Price = decimal.NewFromInt(1)
	line, err := cart.AddItem(product, 1)
	require.NoError(t, err)

	assert.Equal(t, "799.99", line.Price.StringFixed(2))
	assert.Equal(t, "1599.98", cart.Total().StringFixed(2))
}

func TestCart_SetQuantity(t *testing.T) {
	catalog := testCatalog()
	cart := NewCart("session-1")
	a, _ := cart.AddItem(catalog[0], 1)
	b, _ := cart.AddItem(catalog[3], 1)

	line, removed, err := cart.SetQuantity(a.ID, 5)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 5, line.Quantity)

	_, removed, err = cart.SetQuantity(b.ID, 0)
	require.NoError(t, err)
	assert.True(t, removed)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, a.ID, cart.Lines[0].ID)

	_, _, err = cart.SetQuantity("missing", 2)
	require.ErrorIs(t, err, e.ErrCartLineNotFound)
}

func TestCart_RemoveAndClear(t *testing.T) {
	catalog := testCatalog()
	cart := NewCart("session-1")
	a, _ := cart.AddItem(catalog[0], 1)
	_, _ = cart.AddItem(catalog[1], 2)

	cart.RemoveItem("missing")
	assert.Len(t, cart.Lines, 2)

	cart.RemoveItem(a.ID)
	cart.RemoveItem(a.ID)
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.ItemCount())

	cart.Clear()
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Total().IsZero())
	assert.Zero(t, cart.ItemCount())
}
