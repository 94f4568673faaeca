// Package converter переводит доменные сущности в JSON-модели Redis и обратно.
// Цены хранятся строкой, чтобы не терять точность decimal.
package converter

import (
	"maps"
	"slices"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductConverter struct{}

func (ProductConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:             entity.ID,
		Name:           entity.Name,
		Price:          entity.Price.String(),
		Rating:         entity.Rating,
		Image:          entity.Image,
		Category:       entity.Category,
		Brand:          entity.Brand,
		Description:    entity.Description,
		Specifications: maps.Clone(entity.Specifications),
		Images:         slices.Clone(entity.Images),
		InStock:        entity.InStock,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:             model.ID,
		Name:           model.Name,
		Price:          price,
		Rating:         model.Rating,
		Image:          model.Image,
		Category:       model.Category,
		Brand:          model.Brand,
		Description:    model.Description,
		Specifications: maps.Clone(model.Specifications),
		Images:         slices.Clone(model.Images),
		InStock:        model.InStock,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}, nil
}

func (c ProductConverter) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	result := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}
	return result
}

type CartConverter struct{}

func (CartConverter) ToRedisModel(entity *domain.Cart) *CartRedisModel {
	lines := make([]CartLineRedisModel, 0, len(entity.Lines))
	for _, l := range entity.Lines {
		lines = append(lines, CartLineRedisModel{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price.String(),
		})
	}

	return &CartRedisModel{OwnerID: entity.OwnerID, Lines: lines}
}

func (CartConverter) ToEntity(model *CartRedisModel) (*domain.Cart, error) {
	cart := domain.NewCart(model.OwnerID)
	for _, l := range model.Lines {
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     price,
		})
	}

	return cart, nil
}
