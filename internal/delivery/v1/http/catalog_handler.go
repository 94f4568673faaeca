package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Фильтры применяются в порядке: категория, бренд, поиск, цена, сортировка
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"ID категории, all отключает фильтр"
//	@Param			brand		query		string	false	"Бренд (точное совпадение)"
//	@Param			q			query		string	false	"Поиск по названию и описанию"
//	@Param			min_price	query		string	false	"Минимальная цена"
//	@Param			max_price	query		string	false	"Максимальная цена"
//	@Param			sort		query		string	false	"price-low | price-high | popularity | newest | brand"
//	@Success		200			{array}		ProductResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products [get]
func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minPrice, err := parseOptionalPrice(q.Get("min_price"))
	if err != nil {
		WriteError(w, err)
		return
	}
	maxPrice, err := parseOptionalPrice(q.Get("max_price"))
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := h.catalogUsecase.ListProducts(r.Context(), &usecase.ListProductsReq{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Query:    q.Get("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     domain.SortOption(q.Get("sort")),
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// getProduct
//
//	@Summary	Товар по ID
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUsecase.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(*product))
}

func (h *CatalogHandler) featured(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := h.catalogUsecase.Featured(r.Context(), limit)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

func (h *CatalogHandler) newArrivals(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := h.catalogUsecase.NewArrivals(r.Context(), limit)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// related отдаёт товары той же категории без самого товара.
func (h *CatalogHandler) related(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := h.catalogUsecase.Related(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// brands
//
//	@Summary	Бренды каталога в порядке первого появления
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	BrandResponse
//	@Router		/brands [get]
func (h *CatalogHandler) brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogUsecase.Brands(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrBrandResponse(brands))
}

// categories
//
//	@Summary	Категории
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	CategoryResponse
//	@Router		/categories [get]
func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.Categories(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrCategoryResponse(categories))
}

func (h *CatalogHandler) category(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalogUsecase.Category(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(*category))
}
