package kafka

import (
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtoEncoder_EncodeDecode(t *testing.T) {
	occurred := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := &usecase.OrderEvent{
		EventID:    "evt-1",
		EventType:  usecase.OrderCreated,
		OrderID:    "order-1",
		UserID:     "user-1",
		Status:     domain.OrderProcessing,
		Total:      decimal.RequireFromString("1799.98"),
		OccurredAt: occurred,
	}

	data, err := NewProtoEncoder().EncodeOrderEvent(event)
	require.NoError(t, err)

	got, err := DecodeOrderEvent(data)
	require.NoError(t, err)

	assert.Equal(t, "evt-1", got["event_id"])
	assert.Equal(t, "order.created", got["event_type"])
	assert.Equal(t, "order-1", got["order_id"])
	assert.Equal(t, "processing", got["status"])
	assert.Equal(t, "1799.98", got["total"])
	assert.Equal(t, occurred.Format(time.RFC3339Nano), got["occurred_at"])
}

func TestProtoEncoder_Deterministic(t *testing.T) {
	event := &usecase.OrderEvent{EventID: "e", OrderID: "o", Total: decimal.NewFromInt(5)}
	enc := NewProtoEncoder()

	a, err := enc.EncodeOrderEvent(event)
	require.NoError(t, err)
	b, err := enc.EncodeOrderEvent(event)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDecodeOrderEvent_Garbage(t *testing.T) {
	_, err := DecodeOrderEvent([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}
