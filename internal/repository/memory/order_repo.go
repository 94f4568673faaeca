package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

type OrderRepo struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	byUser map[string][]string
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{
		orders: make(map[string]domain.Order),
		byUser: make(map[string][]string),
	}
}

func (r *OrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *order
	stored.Items = slices.Clone(order.Items)

	r.orders[order.ID] = stored
	r.byUser[order.UserID] = append(r.byUser[order.UserID], order.ID)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}

	order.Items = slices.Clone(order.Items)
	return &order, nil
}

// GetByIDForUpdate совпадает с GetByID: изменения статуса одного заказа
// сериализует вызывающий код.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

// ListByUser сортирует по CreatedAt от новых к старым. Равные CreatedAt идут в обратном порядке создания.
func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	result := make([]domain.Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		order := r.orders[ids[i]]
		order.Items = slices.Clone(order.Items)
		result = append(result, order)
	}

	slices.SortStableFunc(result, func(a, b domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}

	stored.Status = order.Status
	stored.UpdatedAt = order.UpdatedAt
	r.orders[order.ID] = stored
	return nil
}
