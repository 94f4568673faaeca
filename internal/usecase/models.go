package usecase

import (
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CATALOG USECASE

// ListProductsReq — комбинированный запрос списка товаров.
// Фильтры применяются в порядке: категория, бренд, поиск, цена, сортировка.
type ListProductsReq struct {
	Category string
	Brand    string
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     domain.SortOption
}

// UpsertProductReq — добавление или обновление товара при загрузке каталога.
type UpsertProductReq struct {
	Product domain.Product
}

// CART USECASE

// ProductSummary — данные товара для строки корзины, заказа или избранного.
// Если товар пропал из каталога, Found == false, имя пустое, цена нулевая.
type ProductSummary struct {
	ID    string
	Name  string
	Image string
	Brand string
	Price decimal.Decimal
	Found bool
}

type CartLineView struct {
	Line    domain.CartLine
	Product ProductSummary
}

// CartView — корзина с товарами и пересчитанными итогами.
type CartView struct {
	OwnerID   string
	Lines     []CartLineView
	Total     decimal.Decimal
	ItemCount int
}

type AddCartItemReq struct {
	OwnerID   string
	ProductID string
	Quantity  int
}

type SetCartQuantityReq struct {
	OwnerID  string
	LineID   string
	Quantity int
}

// SetCartQuantityRes возвращает строку после изменения. Removed сообщает,
// что количество меньше 1 удалило строку.
type SetCartQuantityRes struct {
	Line    domain.CartLine
	Removed bool
}

// ORDER USECASE

type OrderItemReq struct {
	ProductID string
	Quantity  int
}

type CreateOrderReq struct {
	UserID          string
	Items           []OrderItemReq
	ShippingAddress string
	PaymentMethod   string
}

// CheckoutReq — оформление заказа из корзины сессии.
type CheckoutReq struct {
	UserID          string
	SessionID       string
	ShippingAddress string
	PaymentMethod   string
}

type OrderItemView struct {
	Item    domain.OrderItem
	Product ProductSummary
}

type OrderView struct {
	Order domain.Order
	Items []OrderItemView
}

// WISHLIST USECASE

type WishlistItem struct {
	Entry   domain.WishlistEntry
	Product ProductSummary
}

// AUTH USECASE

type SignUpReq struct {
	Name     string
	Email    string
	Password string
}

// SignInReq описывает вход. Заданный SessionID привязывает пользователя к уже
// выданной сессии устройства, и корзина остаётся на месте. Пустой SessionID
// открывает новую сессию.
type SignInReq struct {
	Email     string
	Password  string
	SessionID string
}

// SignInRes — новая сессия и её пользователь.
type SignInRes struct {
	SessionID string
	User      domain.PublicUser
}

type UpdateProfileReq struct {
	SessionID string
	UserID    string
	Update    domain.ProfileUpdate
}

type ChangePasswordReq struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

type DeleteAccountReq struct {
	SessionID string
	UserID    string
	Password  string
}

// OUTBOX

type OutboxEventType string

const (
	OrderCreated       OutboxEventType = "order.created"
	OrderStatusChanged OutboxEventType = "order.status_changed"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

// OutboxEvent записывается в одной транзакции с заказом.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	OrderID     string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// OrderEvent содержит событие заказа до сериализации.
type OrderEvent struct {
	EventID    string
	EventType  OutboxEventType
	OrderID    string
	UserID     string
	Status     domain.OrderStatus
	Total      decimal.Decimal
	OccurredAt time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// REPOSITORIES

type UpsertProductRes struct {
	Product   *domain.Product
	NoChanges bool
}

// MAPPERS

func NewUpsertProductRes(product *domain.Product, noChanges bool) *UpsertProductRes {
	return &UpsertProductRes{
		Product:   product,
		NoChanges: noChanges,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, orderID string, payload []byte, createdAt time.Time) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   orderID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: createdAt,
	}
}

func NewProductSummary(p domain.Product) ProductSummary {
	return ProductSummary{
		ID:    p.ID,
		Name:  p.Name,
		Image: p.Image,
		Brand: p.Brand,
		Price: p.Price,
		Found: true,
	}
}

// MissingProductSummary возвращает заглушку для товара, которого больше нет в каталоге.
func MissingProductSummary(id string) ProductSummary {
	return ProductSummary{ID: id, Price: decimal.Zero}
}
