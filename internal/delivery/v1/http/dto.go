package http

import (
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
)

// Цены отдаются строкой с двумя знаками после запятой.

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type BrandResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Price          string            `json:"price"`
	Rating         float64           `json:"rating"`
	Image          string            `json:"image"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Images         []string          `json:"images,omitempty"`
	InStock        bool              `json:"inStock"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type ProductSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Brand string `json:"brand,omitempty"`
	Price string `json:"price"`
	Found bool   `json:"found"`
}

type CartLineResponse struct {
	ID        string                 `json:"id"`
	ProductID string                 `json:"productId"`
	Quantity  int                    `json:"quantity"`
	Price     string                 `json:"price"`
	Subtotal  string                 `json:"subtotal"`
	Product   ProductSummaryResponse `json:"product"`
}

type CartResponse struct {
	Lines     []CartLineResponse `json:"items"`
	Total     string             `json:"total"`
	ItemCount int                `json:"itemCount"`
}

type OrderItemResponse struct {
	ProductID string                  `json:"productId"`
	Quantity  int                     `json:"quantity"`
	Price     string                  `json:"price"`
	Product   *ProductSummaryResponse `json:"product,omitempty"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Items           []OrderItemResponse `json:"items"`
	Total           string              `json:"total"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type WishlistItemResponse struct {
	ProductID string                 `json:"productId"`
	AddedAt   time.Time              `json:"addedAt"`
	Product   ProductSummaryResponse `json:"product"`
}

type SignInResponse struct {
	SessionID string            `json:"sessionId"`
	User      domain.PublicUser `json:"user"`
}

// Запросы

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress string             `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	AvatarSeed *string `json:"avatarSeed,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// MAPPERS

func toCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toArrCategoryResponse(categories []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, toCategoryResponse(c))
	}
	return result
}

func toArrBrandResponse(brands []domain.Brand) []BrandResponse {
	result := make([]BrandResponse, 0, len(brands))
	for _, b := range brands {
		result = append(result, BrandResponse{ID: b.ID, Name: b.Name})
	}
	return result
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price.StringFixed(2),
		Rating:         p.Rating,
		Image:          p.Image,
		Category:       p.Category,
		Brand:          p.Brand,
		Description:    p.Description,
		Specifications: p.Specifications,
		Images:         p.Images,
		InStock:        p.InStock,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toArrProductResponse(products []domain.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	return result
}

func toProductSummaryResponse(s usecase.ProductSummary) ProductSummaryResponse {
	return ProductSummaryResponse{
		ID:    s.ID,
		Name:  s.Name,
		Image: s.Image,
		Brand: s.Brand,
		Price: s.Price.StringFixed(2),
		Found: s.Found,
	}
}

func toCartResponse(view *usecase.CartView) CartResponse {
	lines := make([]CartLineResponse, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, CartLineResponse{
			ID:        l.Line.ID,
			ProductID: l.Line.ProductID,
			Quantity:  l.Line.Quantity,
			Price:     l.Line.Price.StringFixed(2),
			Subtotal:  l.Line.Subtotal().StringFixed(2),
			Product:   toProductSummaryResponse(l.Product),
		})
	}

	return CartResponse{Lines: lines, Total: view.Total.StringFixed(2), ItemCount: view.ItemCount}
}

func toOrderResponse(order domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		Items:           make([]OrderItemResponse, 0, len(order.Items)),
		Total:           order.Total.StringFixed(2),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}

	for _, it := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
		})
	}

	return resp
}

// toOrderViewResponse дополняет позиции заказа текущими данными товаров.
func toOrderViewResponse(view usecase.OrderView) OrderResponse {
	resp := toOrderResponse(view.Order)
	for i := range resp.Items {
		if i < len(view.Items) {
			product := toProductSummaryResponse(view.Items[i].Product)
			resp.Items[i].Product = &product
		}
	}
	return resp
}

func toArrOrderResponse(views []usecase.OrderView) []OrderResponse {
	result := make([]OrderResponse, 0, len(views))
	for _, v := range views {
		result = append(result, toOrderViewResponse(v))
	}
	return result
}

func toArrWishlistResponse(items []usecase.WishlistItem) []WishlistItemResponse {
	result := make([]WishlistItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, WishlistItemResponse{
			ProductID: it.Entry.ProductID,
			AddedAt:   it.Entry.AddedAt,
			Product:   toProductSummaryResponse(it.Product),
		})
	}
	return result
}
