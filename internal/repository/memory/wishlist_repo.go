package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
)

type WishlistRepo struct {
	mu      sync.RWMutex
	entries map[string][]domain.WishlistEntry
}

func NewWishlistRepo() *WishlistRepo {
	return &WishlistRepo{entries: make(map[string][]domain.WishlistEntry)}
}

func (r *WishlistRepo) Add(_ context.Context, userID, productID string, addedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(userID, productID) >= 0 {
		return nil
	}

	r.entries[userID] = append(r.entries[userID], domain.WishlistEntry{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   addedAt,
	})
	return nil
}

func (r *WishlistRepo) Remove(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(userID, productID); i >= 0 {
		r.entries[userID] = slices.Delete(r.entries[userID], i, i+1)
	}
	return nil
}

func (r *WishlistRepo) Exists(_ context.Context, userID, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.indexOf(userID, productID) >= 0, nil
}

func (r *WishlistRepo) List(_ context.Context, userID string) ([]domain.WishlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries[userID]), nil
}

func (r *WishlistRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, userID)
	return nil
}

func (r *WishlistRepo) indexOf(userID, productID string) int {
	return slices.IndexFunc(r.entries[userID], func(entry domain.WishlistEntry) bool {
		return entry.ProductID == productID
	})
}
