package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/repository/memory"
	"github.com/DRSN-tech/storefront-backend/internal/seed"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/DRSN-tech/storefront-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	outbox  *memory.OutboxRepo
}

type nopEncoder struct{}

func (nopEncoder) EncodeOrderEvent(ev *usecase.OrderEvent) ([]byte, error) {
	return []byte(ev.OrderID), nil
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := logger.NewNop()
	wishlists := memory.NewWishlistRepo()
	outbox := memory.NewOutboxRepo()

	catalog := usecase.NewCatalogUC(memory.NewProductRepo(), memory.NewCategoryRepo(), memory.NewCacheRepo(time.Minute), log)
	carts := usecase.NewCartUC(memory.NewCartRepo(), catalog, log)
	orders := usecase.NewOrderUC(memory.NewOrderRepo(), outbox, nopEncoder{}, tr.NopTransactor{}, catalog, carts, log)

	fixture, err := seed.Parse(seed.DefaultCatalog())
	require.NoError(t, err)
	_, err = seed.Load(context.Background(), catalog, fixture, log)
	require.NoError(t, err)

	mux := chi.NewRouter()
	NewRouter(mux, log).Init(UseCases{
		Catalog:  catalog,
		Cart:     carts,
		Order:    orders,
		Wishlist: usecase.NewWishlistUC(wishlists, catalog, log),
		Auth:     usecase.NewAuthUC(memory.NewUserRepo(), wishlists, memory.NewSessionStore(), log),
	}, []string{"*"})

	return &testAPI{t: t, handler: mux, outbox: outbox}
}

func (a *testAPI) do(method, path, sessionID string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// signIn регистрирует пользователя и открывает сессию sessionID.
func (a *testAPI) signIn(sessionID string) {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{Name: "Jane", Email: "jane@example.com", Password: "secret"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/auth/signin", sessionID, SignInRequest{Email: "jane@example.com", Password: "secret"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/products?category=phones&sort=price-low", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	phones := decode[[]ProductResponse](t, rec)
	require.Len(t, phones, 4)
	assert.Equal(t, "899.99", phones[0].Price)
	assert.Equal(t, "999.99", phones[len(phones)-1].Price)

	rec = api.do(http.MethodGet, "/api/v1/products?category=all", "", nil)
	assert.Len(t, decode[[]ProductResponse](t, rec), 21)

	rec = api.do(http.MethodGet, "/api/v1/products?q=IPHONE", "", nil)
	found := decode[[]ProductResponse](t, rec)
	require.NotEmpty(t, found)
	assert.Equal(t, "1", found[0].ID)

	rec = api.do(http.MethodGet, "/api/v1/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "iPhone 13 Pro", decode[ProductResponse](t, rec).Name)

	rec = api.do(http.MethodGet, "/api/v1/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", decode[ErrorResponse](t, rec).Message)

	rec = api.do(http.MethodGet, "/api/v1/products/featured?limit=2", "", nil)
	assert.Len(t, decode[[]ProductResponse](t, rec), 2)

	rec = api.do(http.MethodGet, "/api/v1/products/1/related", "", nil)
	for _, p := range decode[[]ProductResponse](t, rec) {
		assert.Equal(t, "phones", p.Category)
		assert.NotEqual(t, "1", p.ID)
	}

	rec = api.do(http.MethodGet, "/api/v1/brands", "", nil)
	brands := decode[[]BrandResponse](t, rec)
	require.NotEmpty(t, brands)
	assert.Equal(t, BrandResponse{ID: "apple", Name: "Apple"}, brands[0])

	rec = api.do(http.MethodGet, "/api/v1/categories/laptops", "", nil)
	assert.Equal(t, "Laptops", decode[CategoryResponse](t, rec).Name)
}

func TestCatalogRoutes_BadQuery(t *testing.T) {
	api := newTestAPI(t)

	cases := []string{
		"/api/v1/products?min_price=abc",
		"/api/v1/products?min_price=500&max_price=100",
		"/api/v1/products/featured?limit=-1",
	}
	for _, path := range cases {
		rec := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestSessionHeaderIssued(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(SessionHeader))

	rec = api.do(http.MethodGet, "/api/v1/cart", "device-1", nil)
	assert.Equal(t, "device-1", rec.Header().Get(SessionHeader))
}

func TestCartFlow(t *testing.T) {
	api := newTestAPI(t)
	const sid = "device-1"

	rec := api.do(http.MethodPost, "/api/v1/cart/items", sid, AddCartItemRequest{ProductID: "1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	two := 2
	rec = api.do(http.MethodPost, "/api/v1/cart/items", sid, AddCartItemRequest{ProductID: "8", Quantity: &two})
	require.Equal(t, http.StatusCreated, rec.Code)
	cart := decode[CartResponse](t, rec)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "1099.97", cart.Total)

	lineID := cart.Lines[0].ID
	rec = api.do(http.MethodPatch, "/api/v1/cart/items/"+lineID, sid, SetQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[CartResponse](t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "99.98", cart.Total)

	rec = api.do(http.MethodPatch, "/api/v1/cart/items/missing", sid, SetQuantityRequest{Quantity: 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/cart/items", sid, AddCartItemRequest{ProductID: "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	zero := 0
	rec = api.do(http.MethodPost, "/api/v1/cart/items", sid, AddCartItemRequest{ProductID: "1", Quantity: &zero})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	huge := math.MaxInt
	rec = api.do(http.MethodPost, "/api/v1/cart/items", sid, AddCartItemRequest{ProductID: "8", Quantity: &huge})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPatch, "/api/v1/cart/items/"+cart.Lines[0].ID, sid, SetQuantityRequest{Quantity: huge})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/cart", sid, nil)
	cart = decode[CartResponse](t, rec)
	assert.Equal(t, 2, cart.ItemCount)

	rec = api.do(http.MethodDelete, "/api/v1/cart", sid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/cart", sid, nil)
	cart = decode[CartResponse](t, rec)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, "0.00", cart.Total)
}

func TestPrivateRoutesRequireSession(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/v1/orders", "/api/v1/wishlist", "/api/v1/auth/me"} {
		rec := api.do(http.MethodGet, path, "anonymous", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	const sid = "device-1"

	rec := api.do(http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{Name: "Jane", Email: "Jane@Example.com", Password: "secret"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/signup", "", SignUpRequest{Name: "Other", Email: "jane@example.com", Password: "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/signin", sid, SignInRequest{Email: "jane@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	wrong := decode[ErrorResponse](t, rec)

	rec = api.do(http.MethodPost, "/api/v1/auth/signin", sid, SignInRequest{Email: "ghost@example.com", Password: "secret"})
	assert.Equal(t, wrong, decode[ErrorResponse](t, rec))

	rec = api.do(http.MethodPost, "/api/v1/auth/signin", sid, SignInRequest{Email: "jane@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	signIn := decode[SignInResponse](t, rec)
	assert.Equal(t, sid, signIn.SessionID)

	rec = api.do(http.MethodGet, "/api/v1/auth/me", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", decode[map[string]any](t, rec)["email"])

	name := "Jane Roe"
	rec = api.do(http.MethodPatch, "/api/v1/users/me", sid, UpdateProfileRequest{Name: &name})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/auth/me", sid, nil)
	assert.Equal(t, "Jane Roe", decode[map[string]any](t, rec)["name"])

	rec = api.do(http.MethodPost, "/api/v1/users/me/password", sid, ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/signout", sid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/auth/me", sid, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletedAccountLosesOtherSessions(t *testing.T) {
	api := newTestAPI(t)
	api.signIn("laptop")

	rec := api.do(http.MethodPost, "/api/v1/auth/signin", "phone", SignInRequest{Email: "jane@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodDelete, "/api/v1/users/me", "laptop", DeleteAccountRequest{Password: "secret"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/v1/auth/me", "phone", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/orders", "phone", CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: "8", Quantity: 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	api := newTestAPI(t)
	const sid = "device-1"

	api.do(http.MethodPost, "/api/v1/cart/items", sid, AddCartItemRequest{ProductID: "1"})
	api.signIn(sid)

	rec := api.do(http.MethodPost, "/api/v1/orders/checkout", sid, CheckoutRequest{ShippingAddress: "1 Main St", PaymentMethod: "card"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[OrderResponse](t, rec)
	assert.Equal(t, "processing", created.Status)
	assert.Equal(t, "999.99", created.Total)

	rec = api.do(http.MethodGet, "/api/v1/cart", sid, nil)
	assert.Empty(t, decode[CartResponse](t, rec).Lines)

	rec = api.do(http.MethodPost, "/api/v1/orders", sid, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: "8", Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[OrderResponse](t, rec)

	rec = api.do(http.MethodPost, "/api/v1/orders", sid, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: "999", Quantity: 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/orders", sid, CreateOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/orders", sid, nil)
	orders := decode[[]OrderResponse](t, rec)
	require.Len(t, orders, 2)
	ids := []string{orders[0].ID, orders[1].ID}
	assert.ElementsMatch(t, []string{created.ID, second.ID}, ids)

	rec = api.do(http.MethodGet, "/api/v1/orders/"+created.ID, sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[OrderResponse](t, rec)
	require.Len(t, view.Items, 1)
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, "iPhone 13 Pro", view.Items[0].Product.Name)

	rec = api.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", sid, UpdateStatusRequest{Status: "shipped"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", sid, UpdateStatusRequest{Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPatch, "/api/v1/orders/"+created.ID+"/status", sid, UpdateStatusRequest{Status: "delivered"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/orders/"+created.ID+"/cancel", sid, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 2 создания и 2 смены статуса
	assert.Equal(t, 4, api.outbox.Pending())
}

func TestWishlistFlow(t *testing.T) {
	api := newTestAPI(t)
	const sid = "device-1"
	api.signIn(sid)

	rec := api.do(http.MethodPut, "/api/v1/wishlist/3", sid, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodPut, "/api/v1/wishlist/3", sid, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodPut, "/api/v1/wishlist/999", sid, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/wishlist", sid, nil)
	items := decode[[]WishlistItemResponse](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ProductID)
	assert.True(t, items[0].Product.Found)

	rec = api.do(http.MethodGet, "/api/v1/wishlist/3", sid, nil)
	assert.Equal(t, map[string]bool{"inWishlist": true}, decode[map[string]bool](t, rec))

	rec = api.do(http.MethodDelete, "/api/v1/wishlist/3", sid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodDelete, "/api/v1/wishlist/3", sid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/wishlist/3", sid, nil)
	assert.Equal(t, map[string]bool{"inWishlist": false}, decode[map[string]bool](t, rec))
}

func TestToHTTPResponse_UnknownErrorIsHidden(t *testing.T) {
	code, msg := ToHTTPResponse(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", msg)
}
