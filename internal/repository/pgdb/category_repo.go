package pgdb

import (
	"context"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	db   DB
	conv converter.CategoryConverter
}

func NewCategoryRepo(db DB, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{db: db, conv: conv}
}

func (c *CategoryRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := conn(ctx, c.db).Query(ctx, `SELECT id, name, slug FROM categories ORDER BY seq`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		var m converter.CategoryModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Slug); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *c.conv.ToEntity(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// Upsert создаёт категорию или обновляет её название и slug.
func (c *CategoryRepo) Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m := c.conv.ToModel(category)

	query := `
		INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug
		RETURNING id, name, slug;
	`

	if err := conn(ctx, c.db).QueryRow(ctx, query, m.ID, m.Name, m.Slug).
		Scan(&m.ID, &m.Name, &m.Slug); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(m), nil
}
