// Package seed загружает фикстуру каталога (категории и товары) из YAML.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultCatalog содержит встроенную фикстуру каталога.
func DefaultCatalog() []byte {
	return defaultCatalog
}

type Fixture struct {
	Categories []CategoryRecord `yaml:"categories"`
	Products   []ProductRecord  `yaml:"products"`
}

type CategoryRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// ProductRecord описывает товар в фикстуре. Цена хранится строкой без потери точности.
type ProductRecord struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	Price          string            `yaml:"price"`
	Rating         float64           `yaml:"rating"`
	Image          string            `yaml:"image"`
	Category       string            `yaml:"category"`
	Brand          string            `yaml:"brand"`
	Description    string            `yaml:"description"`
	Specifications map[string]string `yaml:"specifications"`
	Images         []string          `yaml:"images"`
	InStock        bool              `yaml:"in_stock"`
	CreatedAt      time.Time         `yaml:"created_at"`
	UpdatedAt      time.Time         `yaml:"updated_at"`
}

// ObjectSource отдаёт фикстуру из объектного хранилища.
type ObjectSource interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// CatalogWriter сохраняет записи каталога.
type CatalogWriter interface {
	UpsertCategory(ctx context.Context, category *domain.Category) error
	UpsertProduct(ctx context.Context, req *usecase.UpsertProductReq) (*usecase.UpsertProductRes, error)
}

// Stats содержит итог загрузки фикстуры.
type Stats struct {
	Categories int
	Created    int
	Unchanged  int
}

func Parse(data []byte) (*Fixture, error) {
	const op = "seed.Parse"

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &f, nil
}

func (f *Fixture) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Read выбирает источник фикстуры: объект в хранилище, затем файл, затем встроенная фикстура.
func Read(ctx context.Context, path, object string, src ObjectSource) ([]byte, error) {
	const op = "seed.Read"

	switch {
	case object != "" && src != nil:
		data, err := src.Download(ctx, object)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return data, nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return data, nil
	default:
		return DefaultCatalog(), nil
	}
}

// DomainProducts переводит записи фикстуры в доменные товары.
func (f *Fixture) DomainProducts() ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(f.Products))
	for _, r := range f.Products {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", r.ID, e.ErrInvalidPrice)
		}

		products = append(products, domain.Product{
			ID:             r.ID,
			Name:           r.Name,
			Price:          price,
			Rating:         r.Rating,
			Image:          r.Image,
			Category:       r.Category,
			Brand:          r.Brand,
			Description:    r.Description,
			Specifications: r.Specifications,
			Images:         r.Images,
			InStock:        r.InStock,
			CreatedAt:      r.CreatedAt.UTC(),
			UpdatedAt:      r.UpdatedAt.UTC(),
		})
	}
	return products, nil
}

func (f *Fixture) DomainCategories() []domain.Category {
	categories := make([]domain.Category, 0, len(f.Categories))
	for _, r := range f.Categories {
		categories = append(categories, *domain.NewCategory(r.ID, r.Name, r.Slug))
	}
	return categories
}

// Load сохраняет фикстуру через w. Повторная загрузка той же фикстуры ничего не меняет.
func Load(ctx context.Context, w CatalogWriter, f *Fixture, log logger.Logger) (*Stats, error) {
	const op = "seed.Load"

	products, err := f.DomainProducts()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stats := &Stats{}
	for _, c := range f.DomainCategories() {
		if err := w.UpsertCategory(ctx, &c); err != nil {
			return nil, e.Wrap(op, fmt.Errorf("category %s: %w", c.ID, err))
		}
		stats.Categories++
	}

	for _, p := range products {
		res, err := w.UpsertProduct(ctx, &usecase.UpsertProductReq{Product: p})
		if err != nil {
			return nil, e.Wrap(op, fmt.Errorf("product %s: %w", p.ID, err))
		}

		if res.NoChanges {
			stats.Unchanged++
		} else {
			stats.Created++
		}
	}

	log.Infof("Catalog loaded. categories: %d, products upserted: %d, unchanged: %d", stats.Categories, stats.Created, stats.Unchanged)

	return stats, nil
}
