package domain

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SortOption задаёт сортировку списка товаров.
type SortOption string

const (
	SortPriceLow   SortOption = "price-low"
	SortPriceHigh  SortOption = "price-high"
	SortPopularity SortOption = "popularity"
	SortNewest     SortOption = "newest"
	SortBrand      SortOption = "brand"
)

// FindProduct ищет товар по ID. Отсутствие товара не считается ошибкой.
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FilterByCategory возвращает товары категории; AllCategories возвращает весь список.
func FilterByCategory(products []Product, categoryID string) []Product {
	if categoryID == AllCategories {
		return slices.Clone(products)
	}
	return filter(products, func(p Product) bool { return p.Category == categoryID })
}

// FilterByBrand сравнивает бренд точно, с учётом регистра.
func FilterByBrand(products []Product, brand string) []Product {
	return filter(products, func(p Product) bool { return p.Brand == brand })
}

// Search ищет подстроку в названии или описании без учёта регистра.
// Пустой запрос возвращает весь список.
func Search(products []Product, query string) []Product {
	if query == "" {
		return slices.Clone(products)
	}

	needle := strings.ToLower(query)
	return filter(products, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	})
}

// FilterByPriceRange оставляет товары с ценой в [min, max]. nil-граница не ограничивает.
func FilterByPriceRange(products []Product, min, max *decimal.Decimal) []Product {
	return filter(products, func(p Product) bool {
		if min != nil && p.Price.LessThan(*min) {
			return false
		}
		if max != nil && p.Price.GreaterThan(*max) {
			return false
		}
		return true
	})
}

// SortProducts возвращает отсортированную копию. Сортировка стабильная:
// при равенстве ключей сохраняется исходный порядок. Для неизвестной опции возвращается копия без изменений.
func SortProducts(products []Product, option SortOption) []Product {
	sorted := slices.Clone(products)

	var less func(a, b Product) int
	switch option {
	case SortPriceLow:
		less = func(a, b Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		less = func(a, b Product) int { return b.Price.Cmp(a.Price) }
	case SortPopularity:
		less = func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortNewest:
		less = func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortBrand:
		less = func(a, b Product) int {
			return strings.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
		}
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, less)
	return sorted
}

// DistinctBrands возвращает бренды в порядке первого появления.
func DistinctBrands(products []Product) []Brand {
	seen := make(map[string]struct{}, len(products))
	brands := make([]Brand, 0)
	for _, p := range products {
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, Brand{ID: strings.ToLower(p.Brand), Name: p.Brand})
	}
	return brands
}

// TopRated отдаёт товары с наибольшим рейтингом.
func TopRated(products []Product, limit int) []Product {
	return head(SortProducts(products, SortPopularity), limit)
}

// Newest отдаёт последние добавленные товары.
func Newest(products []Product, limit int) []Product {
	return head(SortProducts(products, SortNewest), limit)
}

// Related отдаёт товары той же категории, кроме самого товара, в порядке каталога.
func Related(products []Product, product Product, limit int) []Product {
	related := filter(products, func(p Product) bool {
		return p.Category == product.Category && p.ID != product.ID
	})
	return head(related, limit)
}

func filter(products []Product, keep func(Product) bool) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			result = append(result, p)
		}
	}
	return result
}

func head(products []Product, limit int) []Product {
	if limit < 0 || limit >= len(products) {
		return products
	}
	return products[:limit]
}
