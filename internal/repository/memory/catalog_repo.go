package memory

import (
	"context"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
)

// ProductRepo хранит каталог в памяти процесса. Порядок вставки сохраняется.
type ProductRepo struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{index: make(map[string]int)}
}

func (r *ProductRepo) GetAll(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, cloneProduct(p))
	}
	return result, nil
}

// GetByIDs возвращает найденные товары, отсутствующие пропускаются.
func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if i, ok := r.index[id]; ok {
			result = append(result, cloneProduct(r.products[i]))
		}
	}
	return result, nil
}

func (r *ProductRepo) Upsert(_ context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneProduct(*product)

	i, ok := r.index[product.ID]
	if !ok {
		r.index[product.ID] = len(r.products)
		r.products = append(r.products, stored)
		return usecase.NewUpsertProductRes(product, false), nil
	}

	if sameProduct(r.products[i], stored) {
		return usecase.NewUpsertProductRes(product, true), nil
	}

	r.products[i] = stored
	return usecase.NewUpsertProductRes(product, false), nil
}

// CategoryRepo хранит справочник категорий в памяти.
type CategoryRepo struct {
	mu         sync.RWMutex
	categories []domain.Category
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{}
}

func (r *CategoryRepo) GetAll(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.categories), nil
}

func (r *CategoryRepo) Upsert(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		if r.categories[i].ID == category.ID {
			r.categories[i] = *category
			return category, nil
		}
	}

	r.categories = append(r.categories, *category)
	return category, nil
}

func cloneProduct(p domain.Product) domain.Product {
	p.Specifications = maps.Clone(p.Specifications)
	p.Images = slices.Clone(p.Images)
	return p
}

func sameProduct(a, b domain.Product) bool {
	if !a.Price.Equal(b.Price) {
		return false
	}
	a.Price, b.Price = b.Price, b.Price
	return reflect.DeepEqual(a, b)
}
