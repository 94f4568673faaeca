package domain

// AllCategories отключает фильтр по категории.
const AllCategories = "all"

// Category описывает категорию товаров
type Category struct {
	ID   string
	Name string
	Slug string
}

func NewCategory(id, name, slug string) *Category {
	return &Category{
		ID:   id,
		Name: name,
		Slug: slug,
	}
}
