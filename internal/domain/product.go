package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога. После загрузки каталога считается неизменяемым.
type Product struct {
	ID             string
	Name           string
	Price          decimal.Decimal // две цифры после запятой, только для отображения
	Rating         float64
	Image          string
	Category       string // ID категории; ссылочная целостность не проверяется
	Brand          string
	Description    string
	Specifications map[string]string
	Images         []string
	InStock        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewProduct(id string, name string, price decimal.Decimal, category string, brand string) *Product {
	return &Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: category,
		Brand:    brand,
		InStock:  true,
	}
}

// Brand описывает бренд с меткой для отображения.
type Brand struct {
	ID   string // бренд в нижнем регистре
	Name string
}
