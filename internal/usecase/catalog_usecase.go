package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

const (
	DefaultFeaturedLimit = 4
	DefaultRelatedLimit  = 4
	cacheWriteTimeout    = 500 * time.Millisecond
)

// CatalogUseCase отвечает на запросы к каталогу. Каталог только читается,
// запись идёт через UpsertProduct при загрузке фикстуры.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// GetAll возвращает весь каталог в порядке вставки.
func (c *CatalogUseCase) GetAll(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogUseCase.GetAll"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct ищет товар сначала в кэше, затем в хранилище.
// Если товара нет, возвращает e.ErrProductNotFound.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	products, err := c.lookupProducts(ctx, []string{id})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, ok := products[id]
	if !ok {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return &product, nil
}

// ListProducts применяет фильтры и сортировку к каталогу.
func (c *CatalogUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Category != "" {
		products = domain.FilterByCategory(products, req.Category)
	}
	if req.Brand != "" {
		products = domain.FilterByBrand(products, req.Brand)
	}
	if req.Query != "" {
		products = domain.Search(products, req.Query)
	}
	if req.MinPrice != nil || req.MaxPrice != nil {
		if req.MinPrice != nil && req.MaxPrice != nil && req.MinPrice.GreaterThan(*req.MaxPrice) {
			return nil, e.Wrap(op, e.ErrInvalidPrice)
		}
		products = domain.FilterByPriceRange(products, req.MinPrice, req.MaxPrice)
	}
	if req.Sort != "" {
		products = domain.SortProducts(products, req.Sort)
	}

	return products, nil
}

func (c *CatalogUseCase) ByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return c.ListProducts(ctx, &ListProductsReq{Category: categoryID})
}

func (c *CatalogUseCase) ByBrand(ctx context.Context, brand string) ([]domain.Product, error) {
	const op = "CatalogUseCase.ByBrand"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.FilterByBrand(products, brand), nil
}

// Search ищет по названию и описанию. Пустой запрос возвращает весь каталог.
func (c *CatalogUseCase) Search(ctx context.Context, query string) ([]domain.Product, error) {
	const op = "CatalogUseCase.Search"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.Search(products, query), nil
}

func (c *CatalogUseCase) Brands(ctx context.Context) ([]domain.Brand, error) {
	const op = "CatalogUseCase.Brands"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.DistinctBrands(products), nil
}

// Featured отдаёт товары с лучшим рейтингом.
func (c *CatalogUseCase) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	const op = "CatalogUseCase.Featured"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.TopRated(products, normalizeLimit(limit, DefaultFeaturedLimit)), nil
}

// NewArrivals отдаёт последние добавленные товары.
func (c *CatalogUseCase) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	const op = "CatalogUseCase.NewArrivals"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.Newest(products, normalizeLimit(limit, DefaultFeaturedLimit)), nil
}

// Related отдаёт товары той же категории.
func (c *CatalogUseCase) Related(ctx context.Context, productID string, limit int) ([]domain.Product, error) {
	const op = "CatalogUseCase.Related"

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, ok := domain.FindProduct(products, productID)
	if !ok {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return domain.Related(products, product, normalizeLimit(limit, DefaultRelatedLimit)), nil
}

func (c *CatalogUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "CatalogUseCase.Categories"

	categories, err := c.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

func (c *CatalogUseCase) Category(ctx context.Context, id string) (*domain.Category, error) {
	const op = "CatalogUseCase.Category"

	categories, err := c.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for _, category := range categories {
		if category.ID == id {
			return &category, nil
		}
	}

	return nil, e.Wrap(op, e.ErrCategoryNotFound)
}

// UpsertCategory используется при загрузке фикстуры.
func (c *CatalogUseCase) UpsertCategory(ctx context.Context, category *domain.Category) error {
	const op = "CatalogUseCase.UpsertCategory"

	if strings.TrimSpace(category.ID) == "" || strings.TrimSpace(category.Name) == "" {
		return e.Wrap(op, e.ErrMissingFields)
	}

	if _, err := c.categoryRepo.Upsert(ctx, category); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// UpsertProduct проверяет и сохраняет товар, затем удаляет его из кэша.
func (c *CatalogUseCase) UpsertProduct(ctx context.Context, req *UpsertProductReq) (*UpsertProductRes, error) {
	const op = "CatalogUseCase.UpsertProduct"

	if err := c.validateProduct(&req.Product); err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := c.productRepo.Upsert(ctx, &req.Product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if res.NoChanges {
		return res, nil
	}

	// Удаление из кэша старых данных товара
	if err := c.cacheRepo.DeleteProducts(ctx, []string{req.Product.ID}); err != nil {
		c.logger.Warnf("Failed to delete products from cache: %v", e.Wrap(op, err))
	}

	return res, nil
}

// Summaries возвращает краткие данные товаров по ID. Пропавшие товары
// получают заглушку MissingProductSummary.
func (c *CatalogUseCase) Summaries(ctx context.Context, ids []string) (map[string]ProductSummary, error) {
	const op = "CatalogUseCase.Summaries"

	products, err := c.lookupProducts(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make(map[string]ProductSummary, len(ids))
	for _, id := range ids {
		if p, ok := products[id]; ok {
			result[id] = NewProductSummary(p)
		} else {
			result[id] = MissingProductSummary(id)
		}
	}

	return result, nil
}

// lookupProducts ищет товары в кэше, недостающие догружает из хранилища
// и кладёт в кэш. Ошибки кэша не прерывают запрос.
func (c *CatalogUseCase) lookupProducts(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	const op = "CatalogUseCase.lookupProducts"

	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}

	cached, err := c.cacheRepo.GetProducts(ctx, ids)
	if err != nil {
		c.logger.Warnf("Failed to read products from cache: %v", e.Wrap(op, err))
		cached = nil
	}

	result := make(map[string]domain.Product, len(ids))
	var nonCacheable []string
	for _, id := range ids {
		if p, ok := cached[id]; ok {
			result[id] = p
		} else {
			nonCacheable = append(nonCacheable, id)
		}
	}

	if len(nonCacheable) == 0 {
		return result, nil
	}

	fromDB, err := c.productRepo.GetByIDs(ctx, nonCacheable)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for _, p := range fromDB {
		result[p.ID] = p
	}

	if len(fromDB) > 0 {
		cacheCtx, cancel := context.WithTimeout(ctx, cacheWriteTimeout)
		defer cancel()

		if err := c.cacheRepo.SetProducts(cacheCtx, fromDB); err != nil {
			c.logger.Warnf("Failed to cache products: %v", e.Wrap(op, err))
		}
	}

	return result, nil
}

func (c *CatalogUseCase) validateProduct(p *domain.Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return e.ErrMissingFields
	}

	if strings.TrimSpace(p.Name) == "" {
		return e.ErrProductNameRequired
	}

	if !p.Price.IsPositive() {
		return e.ErrPriceMustBePositive
	}

	if p.Price.Exponent() < -2 && !p.Price.Equal(p.Price.Round(2)) {
		return e.ErrPricePrecision
	}

	return nil
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
