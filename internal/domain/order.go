package domain

import (
	"time"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  nil,
	OrderCancelled:  nil,
}

// ParseOrderStatus проверяет, что статус входит в закрытый набор.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderTransitions[status]; !ok {
		return "", e.ErrInvalidOrderStatus
	}
	return status, nil
}

// CanTransitionTo: delivered и cancelled конечные, переход в тот же статус разрешён.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem описывает позицию заказа с историческим снимком цены.
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Order описывает заказ. Total считается один раз при создании и не пересчитывается.
type Order struct {
	ID              string
	UserID          string
	Status          OrderStatus
	ShippingAddress string
	PaymentMethod   string
	Items           []OrderItem
	Total           decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder создаёт заказ в статусе processing.
func NewOrder(userID string, items []OrderItem, shippingAddress, paymentMethod string, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, e.ErrEmptyOrder
	}

	total := decimal.Zero
	for _, it := range items {
		if !ValidQuantity(it.Quantity) {
			return nil, e.ErrInvalidQuantity
		}
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return &Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          OrderProcessing,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		Items:           items,
		Total:           total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TransitionTo меняет статус. changed == false, если статус уже был таким.
func (o *Order) TransitionTo(next OrderStatus, now time.Time) (changed bool, err error) {
	if _, ok := orderTransitions[next]; !ok {
		return false, e.ErrInvalidOrderStatus
	}
	if o.Status == next {
		return false, nil
	}
	if !o.Status.CanTransitionTo(next) {
		return false, e.ErrStatusTransition
	}

	o.Status = next
	o.UpdatedAt = now
	return true, nil
}
