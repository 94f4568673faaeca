package usecase

import "context"

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует событие заказа для outbox.
type EventEncoder interface {
	EncodeOrderEvent(event *OrderEvent) ([]byte, error)
}
