package pgdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "password", "avatar_seed", "created_at"}

func TestUserRepo_CreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := pgdb.NewUserRepo(mock, converter.UserConverter{})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	user := &domain.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Password: "hash", AvatarSeed: "seed", CreatedAt: now}

	mock.ExpectExec(quote("INSERT INTO users")).
		WithArgs("u1", "Jane", "jane@example.com", "hash", "seed", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(quote("INSERT INTO users")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	require.NoError(t, repo.Create(context.Background(), user))

	err := repo.Create(context.Background(), &domain.User{ID: "u2", Email: "jane@example.com"})
	require.ErrorIs(t, err, e.ErrEmailTaken)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := pgdb.NewUserRepo(mock, converter.UserConverter{})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(quote("FROM users WHERE email = $1")).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow("u1", "Jane", "jane@example.com", "hash", "seed", now))
	mock.ExpectQuery(quote("FROM users WHERE email = $1")).
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows(userCols))

	user, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Password: "hash", AvatarSeed: "seed", CreatedAt: now}, user)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, e.ErrUserNotFound)
}

func TestUserRepo_UpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := pgdb.NewUserRepo(mock, converter.UserConverter{})

	mock.ExpectExec(quote("UPDATE users")).
		WithArgs("u1", "Jane", "jane@example.com", "hash", "seed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &domain.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Password: "hash", AvatarSeed: "seed"})
	require.ErrorIs(t, err, e.ErrUserNotFound)
}

func TestUserRepo_Delete(t *testing.T) {
	mock := newMock(t)
	repo := pgdb.NewUserRepo(mock, converter.UserConverter{})

	mock.ExpectExec(quote("DELETE FROM users WHERE id = $1")).
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
}
