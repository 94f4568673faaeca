package pgdb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistRepo_AddIgnoresDuplicates(t *testing.T) {
	mock := newMock(t)
	repo := pgdb.NewWishlistRepo(mock)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(quote("ON CONFLICT (user_id, product_id) DO NOTHING")).
		WithArgs("u1", "1", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(quote("ON CONFLICT (user_id, product_id) DO NOTHING")).
		WithArgs("u1", "1", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, repo.Add(context.Background(), "u1", "1", now))
	require.NoError(t, repo.Add(context.Background(), "u1", "1", now))
}

func TestWishlistRepo_ExistsAndList(t *testing.T) {
	mock := newMock(t)
	repo := pgdb.NewWishlistRepo(mock)
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)

	mock.ExpectQuery(quote("SELECT EXISTS")).
		WithArgs("u1", "1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(quote("ORDER BY added_at, product_id")).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "product_id", "added_at"}).
			AddRow("u1", "2", first).
			AddRow("u1", "1", second))

	ok, err := repo.Exists(context.Background(), "u1", "1")
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []domain.WishlistEntry{
		{UserID: "u1", ProductID: "2", AddedAt: first},
		{UserID: "u1", ProductID: "1", AddedAt: second},
	}, entries)
}

func TestWishlistRepo_RemoveError(t *testing.T) {
	mock := newMock(t)
	repo := pgdb.NewWishlistRepo(mock)
	boom := errors.New("connection reset")

	mock.ExpectExec(quote("DELETE FROM wishlist_entries WHERE user_id = $1 AND product_id = $2")).
		WithArgs("u1", "1").
		WillReturnError(boom)
	mock.ExpectExec(quote("DELETE FROM wishlist_entries WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.ErrorIs(t, repo.Remove(context.Background(), "u1", "1"), boom)
	require.NoError(t, repo.DeleteByUser(context.Background(), "u1"))
}
