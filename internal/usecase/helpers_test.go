package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/memory"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/DRSN-tech/storefront-backend/pkg/tr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubEncoder struct{}

func (stubEncoder) EncodeOrderEvent(ev *usecase.OrderEvent) ([]byte, error) {
	return []byte(string(ev.EventType) + ":" + ev.OrderID), nil
}

type fixture struct {
	products *memory.ProductRepo
	cache    *memory.CacheRepo
	outbox   *memory.OutboxRepo
	users    *memory.UserRepo
	sessions *memory.SessionStore

	catalog  *usecase.CatalogUseCase
	carts    *usecase.CartUseCase
	orders   *usecase.OrderUseCase
	wishlist *usecase.WishlistUseCase
	auth     *usecase.AuthUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.NewNop()
	f := &fixture{
		products: memory.NewProductRepo(),
		cache:    memory.NewCacheRepo(time.Minute),
		outbox:   memory.NewOutboxRepo(),
		users:    memory.NewUserRepo(),
		sessions: memory.NewSessionStore(),
	}
	categories := memory.NewCategoryRepo()
	wishlists := memory.NewWishlistRepo()

	f.catalog = usecase.NewCatalogUC(f.products, categories, f.cache, log)
	f.carts = usecase.NewCartUC(memory.NewCartRepo(), f.catalog, log)
	f.orders = usecase.NewOrderUC(memory.NewOrderRepo(), f.outbox, stubEncoder{}, tr.NopTransactor{}, f.catalog, f.carts, log)
	f.wishlist = usecase.NewWishlistUC(wishlists, f.catalog, log)
	f.auth = usecase.NewAuthUC(f.users, wishlists, f.sessions, log)

	ctx := context.Background()
	for _, c := range []domain.Category{
		{ID: "all", Name: "All Products", Slug: "all"},
		{ID: "phones", Name: "Phones", Slug: "phones"},
		{ID: "laptops", Name: "Laptops", Slug: "laptops"},
	} {
		require.NoError(t, f.catalog.UpsertCategory(ctx, &c))
	}

	for _, p := range []domain.Product{
		product("1", "iPhone 13 Pro", "999.99", 4.5, "phones", "Apple", "2023-01-15"),
		product("2", "Samsung Galaxy S21", "799.99", 4.3, "phones", "Samsung", "2023-02-10"),
		product("3", "MacBook Pro 14", "1999.99", 4.8, "laptops", "Apple", "2023-01-20"),
		product("4", "Dell XPS 13", "1299.99", 4.6, "laptops", "Dell", "2023-03-01"),
	} {
		_, err := f.catalog.UpsertProduct(ctx, &usecase.UpsertProductReq{Product: p})
		require.NoError(t, err)
	}

	return f
}

func product(id, name, price string, rating float64, category, brand, created string) domain.Product {
	createdAt, err := time.Parse(time.DateOnly, created)
	if err != nil {
		panic(err)
	}

	p := domain.NewProduct(id, name, decimal.RequireFromString(price), category, brand)
	p.Rating = rating
	p.Description = name + " by " + brand
	p.CreatedAt = createdAt
	return *p
}

// setPrice меняет цену товара в каталоге, как это сделала бы повторная загрузка фикстуры.
func (f *fixture) setPrice(t *testing.T, id, price string) {
	t.Helper()

	ctx := context.Background()
	found, err := f.products.GetByIDs(ctx, []string{id})
	require.NoError(t, err)
	require.Len(t, found, 1)

	p := found[0]
	p.Price = decimal.RequireFromString(price)
	_, err = f.catalog.UpsertProduct(ctx, &usecase.UpsertProductReq{Product: p})
	require.NoError(t, err)
}
