package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
)

// ProductRepository хранит каталог. GetAll возвращает товары в порядке вставки.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error)
}

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]domain.Category, error)
	Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

// CartRepository хранит корзины по ID владельца. Get для неизвестного владельца
// возвращает пустую корзину.
type CartRepository interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, ownerID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetByIDForUpdate читает заказ и блокирует его строку до конца транзакции.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser возвращает заказы от новых к старым.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
}

// WishlistRepository хранит множество пар (пользователь, товар).
type WishlistRepository interface {
	Add(ctx context.Context, userID, productID string, addedAt time.Time) error
	Remove(ctx context.Context, userID, productID string) error
	Exists(ctx context.Context, userID, productID string) (bool, error)
	List(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// UserRepository гарантирует уникальность email (e.ErrEmailTaken).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// SessionStore хранит записи сессий по ключу.
type SessionStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CacheRepository кэширует товары по ID.
type CacheRepository interface {
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	// Release возвращает событие в pending для повторной отправки.
	Release(ctx context.Context, id int64) error
}

// Transactor выполняет fn атомарно. Репозитории берут транзакцию из ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
