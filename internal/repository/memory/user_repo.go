package memory

import (
	"context"
	"sync"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// UserRepo хранит пользователей и индекс email → ID.
type UserRepo struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return e.Wrap(whereami.WhereAmI(), e.ErrEmailTaken)
	}

	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	user := r.users[id]
	return &user, nil
}

func (r *UserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	if stored.Email != user.Email {
		if _, taken := r.byEmail[user.Email]; taken {
			return e.Wrap(whereami.WhereAmI(), e.ErrEmailTaken)
		}
		delete(r.byEmail, stored.Email)
		r.byEmail[user.Email] = user.ID
	}

	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.users, id)
	}
	return nil
}
