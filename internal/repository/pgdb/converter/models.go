package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Цена читается как текст (price::text), чтобы не терять точность numeric.
type ProductModel struct {
	ID             string            `db:"id"`
	Name           string            `db:"name"`
	Price          string            `db:"price"`
	Rating         float64           `db:"rating"`
	Image          string            `db:"image"`
	Category       string            `db:"category"`
	Brand          string            `db:"brand"`
	Description    string            `db:"description"`
	Specifications map[string]string `db:"specifications"`
	Images         []string          `db:"images"`
	InStock        bool              `db:"in_stock"`
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

type UserModel struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Password   string    `db:"password"`
	AvatarSeed string    `db:"avatar_seed"`
	CreatedAt  time.Time `db:"created_at"`
}

type OrderModel struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Status          string    `db:"status"`
	ShippingAddress string    `db:"shipping_address"`
	PaymentMethod   string    `db:"payment_method"`
	Total           string    `db:"total"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type OrderItemModel struct {
	OrderID   string `db:"order_id"`
	Position  int    `db:"position"`
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
	Price     string `db:"price"`
}

type WishlistEntryModel struct {
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	AddedAt   time.Time `db:"added_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	OrderID     string     `db:"order_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
