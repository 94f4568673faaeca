package pgdb

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

type WishlistRepo struct {
	db DB
}

func NewWishlistRepo(db DB) *WishlistRepo {
	return &WishlistRepo{db: db}
}

func (w *WishlistRepo) Add(ctx context.Context, userID, productID string, addedAt time.Time) error {
	query := `
		INSERT INTO wishlist_entries (user_id, product_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	if _, err := conn(ctx, w.db).Exec(ctx, query, userID, productID, addedAt); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (w *WishlistRepo) Remove(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM wishlist_entries WHERE user_id = $1 AND product_id = $2`

	if _, err := conn(ctx, w.db).Exec(ctx, query, userID, productID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (w *WishlistRepo) Exists(ctx context.Context, userID, productID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM wishlist_entries WHERE user_id = $1 AND product_id = $2)`

	var ok bool
	if err := conn(ctx, w.db).QueryRow(ctx, query, userID, productID).Scan(&ok); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ok, nil
}

func (w *WishlistRepo) List(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	query := `
		SELECT user_id, product_id, added_at
		FROM wishlist_entries
		WHERE user_id = $1
		ORDER BY added_at, product_id
	`

	rows, err := conn(ctx, w.db).Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var result []domain.WishlistEntry
	for rows.Next() {
		var m converter.WishlistEntryModel
		if err := rows.Scan(&m.UserID, &m.ProductID, &m.AddedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, domain.WishlistEntry{UserID: m.UserID, ProductID: m.ProductID, AddedAt: m.AddedAt})
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (w *WishlistRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := conn(ctx, w.db).Exec(ctx, `DELETE FROM wishlist_entries WHERE user_id = $1`, userID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}
