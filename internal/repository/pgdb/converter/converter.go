// Package converter переводит доменные сущности в модели PostgreSQL и обратно.
package converter

import (
	"fmt"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func (ProductConverter) ToModel(entity *domain.Product) *ProductModel {
	specs := entity.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	images := entity.Images
	if images == nil {
		images = []string{}
	}

	return &ProductModel{
		ID:             entity.ID,
		Name:           entity.Name,
		Price:          entity.Price.StringFixed(2),
		Rating:         entity.Rating,
		Image:          entity.Image,
		Category:       entity.Category,
		Brand:          entity.Brand,
		Description:    entity.Description,
		Specifications: specs,
		Images:         images,
		InStock:        entity.InStock,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(model *ProductModel) (*domain.Product, error) {
	price, err := parseMoney(model.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", model.ID, err)
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
		Specifications: model.Specifications,
		Images:         model.Images,
		InStock:        model.InStock,
		CreatedAt:      model.CreatedAt.UTC(),
		UpdatedAt:      model.UpdatedAt.UTC(),
	}, nil
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter struct{}

func (CategoryConverter) ToModel(entity *domain.Category) *CategoryModel {
	return &CategoryModel{ID: entity.ID, Name: entity.Name, Slug: entity.Slug}
}

func (CategoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	return domain.NewCategory(model.ID, model.Name, model.Slug)
}

type UserConverter struct{}

func (UserConverter) ToModel(entity *domain.User) *UserModel {
	return &UserModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Email:      entity.Email,
		Password:   entity.Password,
		AvatarSeed: entity.AvatarSeed,
		CreatedAt:  entity.CreatedAt,
	}
}

func (UserConverter) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:         model.ID,
		Name:       model.Name,
		Email:      model.Email,
		Password:   model.Password,
		AvatarSeed: model.AvatarSeed,
		CreatedAt:  model.CreatedAt.UTC(),
	}
}

// OrderConverter собирает заказ из строки orders и его позиций.
type OrderConverter struct{}

func (OrderConverter) ToModel(entity *domain.Order) (*OrderModel, []OrderItemModel) {
	items := make([]OrderItemModel, 0, len(entity.Items))
	for i, it := range entity.Items {
		items = append(items, OrderItemModel{
			OrderID:   entity.ID,
			Position:  i,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
		})
	}

	return &OrderModel{
		ID:              entity.ID,
		UserID:          entity.UserID,
		Status:          string(entity.Status),
		ShippingAddress: entity.ShippingAddress,
		PaymentMethod:   entity.PaymentMethod,
		Total:           entity.Total.StringFixed(2),
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
	}, items
}

func (OrderConverter) ToEntity(model *OrderModel, items []OrderItemModel) (*domain.Order, error) {
	total, err := parseMoney(model.Total)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", model.ID, err)
	}

	status, err := domain.ParseOrderStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", model.ID, err)
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		price, err := parseMoney(it.Price)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", model.ID, err)
		}
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price,
		})
	}

	return &domain.Order{
		ID:              model.ID,
		UserID:          model.UserID,
		Status:          status,
		ShippingAddress: model.ShippingAddress,
		PaymentMethod:   model.PaymentMethod,
		Items:           orderItems,
		Total:           total,
		CreatedAt:       model.CreatedAt.UTC(),
		UpdatedAt:       model.UpdatedAt.UTC(),
	}, nil
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		OrderID:     entity.OrderID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		OrderID:     model.OrderID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}
	return result
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}
	return d, nil
}
