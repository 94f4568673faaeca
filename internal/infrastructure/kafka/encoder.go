package kafka

import (
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoEncoder сериализует событие заказа в protobuf google.protobuf.Struct.
// Сумма передаётся строкой с двумя знаками после запятой.
type ProtoEncoder struct{}

func NewProtoEncoder() ProtoEncoder {
	return ProtoEncoder{}
}

func (ProtoEncoder) EncodeOrderEvent(event *usecase.OrderEvent) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]any{
		"event_id":    event.EventID,
		"event_type":  string(event.EventType),
		"order_id":    event.OrderID,
		"user_id":     event.UserID,
		"status":      string(event.Status),
		"total":       event.Total.StringFixed(2),
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// DecodeOrderEvent восстанавливает событие из сообщения.
func DecodeOrderEvent(data []byte) (map[string]any, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return msg.AsMap(), nil
}
