package pgdb

import (
	"context"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	id, name, price::text, rating, image, category, brand, description,
	specifications, images, in_stock, created_at, updated_at`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	db   DB
	conv converter.ProductConverter
}

func NewProductRepo(db DB, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		db:   db,
		conv: conv,
	}
}

// GetAll возвращает каталог в порядке вставки (seq).
func (p *ProductRepo) GetAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY seq`

	rows, err := conn(ctx, p.db).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.collect(rows)
}

func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY seq`

	rows, err := conn(ctx, p.db).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.collect(rows)
}

// Upsert идемпотентно создаёт или обновляет продукт по ID.
// Запись обновляется только если хотя бы одно поле изменилось.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	m := p.conv.ToModel(product)

	query := `
		WITH upsert AS (
		INSERT INTO products (
			id, name, price, rating, image, category, brand, description,
			specifications, images, in_stock, created_at, updated_at
		)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			rating = EXCLUDED.rating,
			image = EXCLUDED.image,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand,
			description = EXCLUDED.description,
			specifications = EXCLUDED.specifications,
			images = EXCLUDED.images,
			in_stock = EXCLUDED.in_stock,
			updated_at = EXCLUDED.updated_at
		WHERE
			(products.name, products.price, products.rating, products.image, products.category,
			 products.brand, products.description, products.specifications, products.images,
			 products.in_stock, products.updated_at)
			IS DISTINCT FROM
			(EXCLUDED.name, EXCLUDED.price, EXCLUDED.rating, EXCLUDED.image, EXCLUDED.category,
			 EXCLUDED.brand, EXCLUDED.description, EXCLUDED.specifications, EXCLUDED.images,
			 EXCLUDED.in_stock, EXCLUDED.updated_at)
		RETURNING id
		)
		SELECT false AS no_changes FROM upsert

		UNION ALL

		SELECT true AS no_changes
		FROM products
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var noChanges bool
	err := conn(ctx, p.db).QueryRow(ctx, query,
		m.ID, m.Name, m.Price, m.Rating, m.Image, m.Category, m.Brand, m.Description,
		m.Specifications, m.Images, m.InStock, m.CreatedAt, m.UpdatedAt,
	).Scan(&noChanges)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertProductRes(product, noChanges), nil
}

func (p *ProductRepo) collect(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var m converter.ProductModel
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Price, &m.Rating, &m.Image, &m.Category, &m.Brand, &m.Description,
			&m.Specifications, &m.Images, &m.InStock, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		product, err := p.conv.ToEntity(&m)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
