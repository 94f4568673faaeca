package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
)

type CatalogUC interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error)
	Brands(ctx context.Context) ([]domain.Brand, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]domain.Product, error)
	Related(ctx context.Context, productID string, limit int) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id string) (*domain.Category, error)
}

type CartUC interface {
	GetCart(ctx context.Context, ownerID string) (*CartView, error)
	AddItem(ctx context.Context, req *AddCartItemReq) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, req *SetCartQuantityReq) (*SetCartQuantityRes, error)
	RemoveItem(ctx context.Context, ownerID, lineID string) error
	Clear(ctx context.Context, ownerID string) error
}

type OrderUC interface {
	CreateOrder(ctx context.Context, req *CreateOrderReq) (*domain.Order, error)
	Checkout(ctx context.Context, req *CheckoutReq) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]OrderView, error)
	GetOrder(ctx context.Context, userID, orderID string) (*OrderView, error)
	UpdateStatus(ctx context.Context, orderID string, status string) (*domain.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
}

type WishlistUC interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	Contains(ctx context.Context, userID, productID string) (bool, error)
	List(ctx context.Context, userID string) ([]WishlistItem, error)
}

type AuthUC interface {
	SignUp(ctx context.Context, req *SignUpReq) (*domain.PublicUser, error)
	SignIn(ctx context.Context, req *SignInReq) (*SignInRes, error)
	SignOut(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*domain.PublicUser, bool)
	GetUser(ctx context.Context, userID string) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileReq) (*domain.PublicUser, error)
	ChangePassword(ctx context.Context, req *ChangePasswordReq) error
	DeleteAccount(ctx context.Context, req *DeleteAccountReq) error
}
