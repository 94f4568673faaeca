package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// OrderUseCase создаёт заказы и меняет их статусы. Каждое изменение
// записывает событие в outbox в той же транзакции.
type OrderUseCase struct {
	orderRepo  OrderRepository
	outboxRepo OutboxRepository // при nil события не пишутся
	encoder    EventEncoder
	tx         Transactor
	catalog    *CatalogUseCase
	carts      *CartUseCase
	logger     logger.Logger
	locks      *ownerLocks
	now        func() time.Time
}

func NewOrderUC(
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	encoder EventEncoder,
	tx Transactor,
	catalog *CatalogUseCase,
	carts *CartUseCase,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		encoder:    encoder,
		tx:         tx,
		catalog:    catalog,
		carts:      carts,
		logger:     logger,
		locks:      newOwnerLocks(),
		now:        time.Now,
	}
}

// CreateOrder фиксирует текущие цены каталога в позициях заказа.
// Если хотя бы один товар не найден, заказ не создаётся.
func (o *OrderUseCase) CreateOrder(ctx context.Context, req *CreateOrderReq) (*domain.Order, error) {
	const op = "OrderUseCase.CreateOrder"

	if strings.TrimSpace(req.UserID) == "" {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	if len(req.Items) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyOrder)
	}

	ids := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		if !domain.ValidQuantity(it.Quantity) {
			return nil, e.Wrap(op, e.ErrInvalidQuantity)
		}
		ids = append(ids, it.ProductID)
	}

	products, err := o.catalog.lookupProducts(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		product, ok := products[it.ProductID]
		if !ok {
			return nil, e.Wrap(op, e.ErrProductNotFound)
		}
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     product.Price,
		})
	}

	order, err := domain.NewOrder(req.UserID, items, req.ShippingAddress, req.PaymentMethod, o.now().UTC())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = o.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := o.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return o.writeEvent(ctx, OrderCreated, order)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.logger.Infof("Order created. order_id: %s, user_id: %s, total: %s", order.ID, order.UserID, order.Total.StringFixed(2))

	return order, nil
}

// Checkout создаёт заказ из корзины сессии и очищает корзину.
func (o *OrderUseCase) Checkout(ctx context.Context, req *CheckoutReq) (*domain.Order, error) {
	const op = "OrderUseCase.Checkout"

	var order *domain.Order
	err := o.carts.Drain(ctx, req.SessionID, func(ctx context.Context, cart *domain.Cart) error {
		items := make([]OrderItemReq, 0, len(cart.Lines))
		for _, l := range cart.Lines {
			items = append(items, OrderItemReq{ProductID: l.ProductID, Quantity: l.Quantity})
		}

		var err error
		order, err = o.CreateOrder(ctx, &CreateOrderReq{
			UserID:          req.UserID,
			Items:           items,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// ListOrders возвращает заказы пользователя от новых к старым.
func (o *OrderUseCase) ListOrders(ctx context.Context, userID string) ([]OrderView, error) {
	const op = "OrderUseCase.ListOrders"

	orders, err := o.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	views, err := o.views(ctx, orders)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return views, nil
}

// GetOrder возвращает заказ пользователя. Чужой заказ не отличается от отсутствующего.
func (o *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*OrderView, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if order.UserID != userID {
		return nil, e.Wrap(op, e.ErrOrderNotFound)
	}

	views, err := o.views(ctx, []domain.Order{*order})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &views[0], nil
}

// UpdateStatus переводит заказ в новый статус по правилам domain.OrderStatus.
// Переходы одного заказа выполняются строго по очереди: внутри процесса
// через мьютекс заказа, между процессами через блокировку строки в БД.
func (o *OrderUseCase) UpdateStatus(ctx context.Context, orderID string, status string) (*domain.Order, error) {
	const op = "OrderUseCase.UpdateStatus"

	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	unlock := o.locks.Lock(orderID)
	defer unlock()

	var order *domain.Order
	err = o.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = o.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		changed, err := order.TransitionTo(next, o.now().UTC())
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		if err := o.orderRepo.UpdateStatus(ctx, order); err != nil {
			return err
		}
		return o.writeEvent(ctx, OrderStatusChanged, order)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// CancelOrder отменяет заказ пользователя.
func (o *OrderUseCase) CancelOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	const op = "OrderUseCase.CancelOrder"

	if _, err := o.GetOrder(ctx, userID, orderID); err != nil {
		return nil, e.Wrap(op, err)
	}

	order, err := o.UpdateStatus(ctx, orderID, string(domain.OrderCancelled))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

func (o *OrderUseCase) writeEvent(ctx context.Context, eventType OutboxEventType, order *domain.Order) error {
	if o.outboxRepo == nil {
		return nil
	}

	event := &OrderEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: order.UpdatedAt,
	}

	payload, err := o.encoder.EncodeOrderEvent(event)
	if err != nil {
		return err
	}

	_, err = o.outboxRepo.Create(ctx, NewOutboxEvent(event.EventID, eventType, order.ID, payload, event.OccurredAt))
	return err
}

func (o *OrderUseCase) views(ctx context.Context, orders []domain.Order) ([]OrderView, error) {
	var ids []string
	for _, order := range orders {
		for _, it := range order.Items {
			ids = append(ids, it.ProductID)
		}
	}

	summaries, err := o.catalog.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		items := make([]OrderItemView, 0, len(order.Items))
		for _, it := range order.Items {
			items = append(items, OrderItemView{Item: it, Product: summaries[it.ProductID]})
		}
		views = append(views, OrderView{Order: order, Items: items})
	}

	return views, nil
}
