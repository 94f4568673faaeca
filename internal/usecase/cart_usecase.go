package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

// CartUseCase управляет корзинами сессий. Изменения одной корзины
// выполняются последовательно: чтение после записи видит запись.
type CartUseCase struct {
	cartRepo CartRepository
	catalog  *CatalogUseCase
	locks    *ownerLocks
	logger   logger.Logger
}

func NewCartUC(cartRepo CartRepository, catalog *CatalogUseCase, logger logger.Logger) *CartUseCase {
	return &CartUseCase{
		cartRepo: cartRepo,
		catalog:  catalog,
		locks:    newOwnerLocks(),
		logger:   logger,
	}
}

// GetCart возвращает корзину с данными товаров и итогами.
func (c *CartUseCase) GetCart(ctx context.Context, ownerID string) (*CartView, error) {
	const op = "CartUseCase.GetCart"

	if err := validateOwner(ownerID); err != nil {
		return nil, e.Wrap(op, err)
	}

	unlock := c.locks.Lock(ownerID)
	defer unlock()

	cart, err := c.cartRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view, err := c.view(ctx, cart)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// AddItem добавляет товар в корзину. Цена фиксируется при первом добавлении.
func (c *CartUseCase) AddItem(ctx context.Context, req *AddCartItemReq) (*domain.CartLine, error) {
	const op = "CartUseCase.AddItem"

	if err := validateOwner(req.OwnerID); err != nil {
		return nil, e.Wrap(op, err)
	}

	if !domain.ValidQuantity(req.Quantity) {
		return nil, e.Wrap(op, e.ErrInvalidQuantity)
	}

	product, err := c.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	unlock := c.locks.Lock(req.OwnerID)
	defer unlock()

	cart, err := c.cartRepo.Get(ctx, req.OwnerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	line, err := cart.AddItem(*product, req.Quantity)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.cartRepo.Save(ctx, cart); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &line, nil
}

// SetQuantity меняет количество строки; значение меньше 1 удаляет строку.
func (c *CartUseCase) SetQuantity(ctx context.Context, req *SetCartQuantityReq) (*SetCartQuantityRes, error) {
	const op = "CartUseCase.SetQuantity"

	if err := validateOwner(req.OwnerID); err != nil {
		return nil, e.Wrap(op, err)
	}

	unlock := c.locks.Lock(req.OwnerID)
	defer unlock()

	cart, err := c.cartRepo.Get(ctx, req.OwnerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	line, removed, err := cart.SetQuantity(req.LineID, req.Quantity)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.cartRepo.Save(ctx, cart); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &SetCartQuantityRes{Line: line, Removed: removed}, nil
}

// RemoveItem идемпотентен.
func (c *CartUseCase) RemoveItem(ctx context.Context, ownerID, lineID string) error {
	const op = "CartUseCase.RemoveItem"

	if err := validateOwner(ownerID); err != nil {
		return e.Wrap(op, err)
	}

	unlock := c.locks.Lock(ownerID)
	defer unlock()

	cart, err := c.cartRepo.Get(ctx, ownerID)
	if err != nil {
		return e.Wrap(op, err)
	}

	before := len(cart.Lines)
	cart.RemoveItem(lineID)
	if len(cart.Lines) == before {
		return nil
	}

	if err := c.cartRepo.Save(ctx, cart); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (c *CartUseCase) Clear(ctx context.Context, ownerID string) error {
	const op = "CartUseCase.Clear"

	if err := validateOwner(ownerID); err != nil {
		return e.Wrap(op, err)
	}

	unlock := c.locks.Lock(ownerID)
	defer unlock()

	if err := c.cartRepo.Delete(ctx, ownerID); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Drain передаёт текущую корзину в fn и очищает её, если fn завершилась без ошибки.
// Корзина заблокирована на всё время выполнения fn.
func (c *CartUseCase) Drain(ctx context.Context, ownerID string, fn func(ctx context.Context, cart *domain.Cart) error) error {
	const op = "CartUseCase.Drain"

	if err := validateOwner(ownerID); err != nil {
		return e.Wrap(op, err)
	}

	unlock := c.locks.Lock(ownerID)
	defer unlock()

	cart, err := c.cartRepo.Get(ctx, ownerID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := fn(ctx, cart); err != nil {
		return err
	}

	if err := c.cartRepo.Delete(ctx, ownerID); err != nil {
		// заказ уже создан, корзина останется до следующей очистки
		c.logger.Warnf("Failed to clear cart after checkout: %v", e.Wrap(op, err))
	}

	return nil
}

func (c *CartUseCase) view(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	ids := make([]string, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		ids = append(ids, l.ProductID)
	}

	summaries, err := c.catalog.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLineView, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, CartLineView{Line: l, Product: summaries[l.ProductID]})
	}

	return &CartView{
		OwnerID:   cart.OwnerID,
		Lines:     lines,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}, nil
}

func validateOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return e.ErrUnauthorized
	}
	return nil
}
