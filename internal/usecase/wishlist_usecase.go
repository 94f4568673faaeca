package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

// WishlistUseCase ведёт избранное пользователя как множество.
type WishlistUseCase struct {
	wishlistRepo WishlistRepository
	catalog      *CatalogUseCase
	logger       logger.Logger
	now          func() time.Time
}

func NewWishlistUC(wishlistRepo WishlistRepository, catalog *CatalogUseCase, logger logger.Logger) *WishlistUseCase {
	return &WishlistUseCase{
		wishlistRepo: wishlistRepo,
		catalog:      catalog,
		logger:       logger,
		now:          time.Now,
	}
}

// Add идемпотентен.
func (w *WishlistUseCase) Add(ctx context.Context, userID, productID string) error {
	const op = "WishlistUseCase.Add"

	if _, err := w.catalog.GetProduct(ctx, productID); err != nil {
		return e.Wrap(op, err)
	}

	if err := w.wishlistRepo.Add(ctx, userID, productID, w.now().UTC()); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Remove не считает ошибкой удаление отсутствующей пары.
func (w *WishlistUseCase) Remove(ctx context.Context, userID, productID string) error {
	const op = "WishlistUseCase.Remove"

	if err := w.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (w *WishlistUseCase) Contains(ctx context.Context, userID, productID string) (bool, error) {
	const op = "WishlistUseCase.Contains"

	ok, err := w.wishlistRepo.Exists(ctx, userID, productID)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	return ok, nil
}

func (w *WishlistUseCase) List(ctx context.Context, userID string) ([]WishlistItem, error) {
	const op = "WishlistUseCase.List"

	entries, err := w.wishlistRepo.List(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ProductID)
	}

	summaries, err := w.catalog.Summaries(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]WishlistItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, WishlistItem{Entry: entry, Product: summaries[entry.ProductID]})
	}

	return items, nil
}
