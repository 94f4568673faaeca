package converter

import "time"

type ProductRedisModel struct {
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
	InStock        bool              `json:"in_stock"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type CartLineRedisModel struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type CartRedisModel struct {
	OwnerID string               `json:"owner_id"`
	Lines   []CartLineRedisModel `json:"lines"`
}
