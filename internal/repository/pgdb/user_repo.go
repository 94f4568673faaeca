package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

type UserRepo struct {
	db   DB
	conv converter.UserConverter
}

func NewUserRepo(db DB, conv converter.UserConverter) *UserRepo {
	return &UserRepo{db: db, conv: conv}
}

// Create вставляет пользователя. Уникальность email обеспечивает индекс users_email_key.
func (u *UserRepo) Create(ctx context.Context, user *domain.User) error {
	m := u.conv.ToModel(user)

	query := `
		INSERT INTO users (id, name, email, password, avatar_seed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := conn(ctx, u.db).Exec(ctx, query,
		m.ID, m.Name, m.Email, m.Password, m.AvatarSeed, m.CreatedAt,
	); err != nil {
		if postgresDuplicate(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrEmailTaken)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (u *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return u.getOne(ctx, `WHERE id = $1`, id)
}

func (u *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.getOne(ctx, `WHERE email = $1`, email)
}

func (u *UserRepo) Update(ctx context.Context, user *domain.User) error {
	m := u.conv.ToModel(user)

	query := `
		UPDATE users
		SET name = $2, email = $3, password = $4, avatar_seed = $5
		WHERE id = $1
	`

	tag, err := conn(ctx, u.db).Exec(ctx, query, m.ID, m.Name, m.Email, m.Password, m.AvatarSeed)
	if err != nil {
		if postgresDuplicate(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrEmailTaken)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return nil
}

func (u *UserRepo) Delete(ctx context.Context, id string) error {
	if _, err := conn(ctx, u.db).Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (u *UserRepo) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT id, name, email, password, avatar_seed, created_at FROM users ` + where

	var m converter.UserModel
	err := conn(ctx, u.db).QueryRow(ctx, query, arg).
		Scan(&m.ID, &m.Name, &m.Email, &m.Password, &m.AvatarSeed, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&m), nil
}
