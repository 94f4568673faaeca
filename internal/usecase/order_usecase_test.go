package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrder(t *testing.T, f *fixture, userID string) *domain.Order {
	t.Helper()

	order, err := f.orders.CreateOrder(context.Background(), &usecase.CreateOrderReq{
		UserID: userID,
		Items: []usecase.OrderItemReq{
			{ProductID: "1", Quantity: 1},
			{ProductID: "2", Quantity: 2},
		},
		ShippingAddress: "1 Main St",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	return order
}

func TestOrder_TotalIsHistorical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := createOrder(t, f, "u1")
	assert.Equal(t, domain.OrderProcessing, order.Status)
	assert.Equal(t, "2599.97", order.Total.StringFixed(2))

	f.setPrice(t, "1", "1.00")

	view, err := f.orders.GetOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, "2599.97", view.Order.Total.StringFixed(2))
	assert.Equal(t, "999.99", view.Items[0].Item.Price.StringFixed(2))
	assert.Equal(t, "1.00", view.Items[0].Product.Price.StringFixed(2))
}

func TestOrder_CreateWritesOutboxEvent(t *testing.T) {
	f := newFixture(t)

	order := createOrder(t, f, "u1")

	events, err := f.outbox.GetAndMarkAsProcessing(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, usecase.OrderCreated, events[0].EventType)
	assert.Equal(t, order.ID, events[0].OrderID)
	assert.Equal(t, "order.created:"+order.ID, string(events[0].Payload))
}

func TestOrder_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     usecase.CreateOrderReq
		wantErr error
	}{
		{name: "unknown product", req: usecase.CreateOrderReq{UserID: "u1", Items: []usecase.OrderItemReq{{ProductID: "1", Quantity: 1}, {ProductID: "missing", Quantity: 1}}}, wantErr: e.ErrProductNotFound},
		{name: "empty", req: usecase.CreateOrderReq{UserID: "u1"}, wantErr: e.ErrEmptyOrder},
		{name: "zero quantity", req: usecase.CreateOrderReq{UserID: "u1", Items: []usecase.OrderItemReq{{ProductID: "1", Quantity: 0}}}, wantErr: e.ErrInvalidQuantity},
		{name: "anonymous", req: usecase.CreateOrderReq{Items: []usecase.OrderItemReq{{ProductID: "1", Quantity: 1}}}, wantErr: e.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(ctx, &tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	orders, err := f.orders.ListOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, f.outbox.Pending())
}

func TestOrder_Checkout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "3", Quantity: 1})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, &usecase.AddCartItemReq{OwnerID: "s1", ProductID: "4", Quantity: 2})
	require.NoError(t, err)

	order, err := f.orders.Checkout(ctx, &usecase.CheckoutReq{UserID: "u1", SessionID: "s1", ShippingAddress: "addr", PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, "4599.97", order.Total.StringFixed(2))
	assert.Len(t, order.Items, 2)

	cart, err := f.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	_, err = f.orders.Checkout(ctx, &usecase.CheckoutReq{UserID: "u1", SessionID: "s1"})
	require.ErrorIs(t, err, e.ErrEmptyOrder)
}

func TestOrder_ListNewestFirstAndScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := createOrder(t, f, "u1")
	second := createOrder(t, f, "u1")
	other := createOrder(t, f, "u2")

	orders, err := f.orders.ListOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, []string{orders[0].Order.ID, orders[1].Order.ID})
	assert.False(t, orders[0].Order.CreatedAt.Before(orders[1].Order.CreatedAt))

	_, err = f.orders.GetOrder(ctx, "u1", other.ID)
	require.ErrorIs(t, err, e.ErrOrderNotFound)
}

func TestOrder_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := createOrder(t, f, "u1")
	_, err := f.outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)

	updated, err := f.orders.UpdateStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, updated.Status)

	_, err = f.orders.UpdateStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, order.ID, "processing")
	require.ErrorIs(t, err, e.ErrStatusTransition)

	_, err = f.orders.UpdateStatus(ctx, order.ID, "teleported")
	require.ErrorIs(t, err, e.ErrInvalidOrderStatus)

	_, err = f.orders.UpdateStatus(ctx, "missing", "shipped")
	require.ErrorIs(t, err, e.ErrOrderNotFound)

	events, err := f.outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1, "only the real transition emits an event")
	assert.Equal(t, usecase.OrderStatusChanged, events[0].EventType)

	cancelled, err := f.orders.CancelOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, cancelled.Status)

	_, err = f.orders.CancelOrder(ctx, "u2", order.ID)
	require.ErrorIs(t, err, e.ErrOrderNotFound)
}

func TestOrder_ConcurrentStatusUpdatesEmitOneEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := createOrder(t, f, "u1")
	_, err := f.outbox.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)

	race := func(status string) {
		const workers = 20

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.orders.UpdateStatus(ctx, order.ID, status)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
	}

	race("shipped")
	events, err := f.outbox.GetAndMarkAsProcessing(ctx, 100)
	require.NoError(t, err)
	require.Len(t, events, 1)

	race("cancelled")
	events, err = f.outbox.GetAndMarkAsProcessing(ctx, 100)
	require.NoError(t, err)
	require.Len(t, events, 1)

	view, err := f.orders.GetOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, view.Order.Status)
}
