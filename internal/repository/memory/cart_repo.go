package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
)

// CartRepo хранит копии корзин, вызывающий не может изменить их в обход Save.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[string][]domain.CartLine)}
}

func (r *CartRepo) Get(_ context.Context, ownerID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart := domain.NewCart(ownerID)
	if lines, ok := r.carts[ownerID]; ok {
		cart.Lines = slices.Clone(lines)
	}
	return cart, nil
}

func (r *CartRepo) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(cart.Lines) == 0 {
		delete(r.carts, cart.OwnerID)
		return nil
	}

	r.carts[cart.OwnerID] = slices.Clone(cart.Lines)
	return nil
}

func (r *CartRepo) Delete(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, ownerID)
	return nil
}
