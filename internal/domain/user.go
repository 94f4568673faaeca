package domain

import (
	"crypto/subtle"
	"net/mail"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/google/uuid"
)

// User описывает пользователя. Пароль хранится как есть и сравнивается без хэширования.
type User struct {
	ID         string
	Name       string
	Email      string
	Password   string
	AvatarSeed string
	CreatedAt  time.Time
}

// PublicUser описывает пользователя без пароля. Он же хранится в записи сессии.
type PublicUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
	AvatarSeed string    `json:"avatarSeed,omitempty"`
}

// ProfileUpdate описывает частичное обновление профиля. Поля со значением nil не меняются.
type ProfileUpdate struct {
	Name       *string
	Email      *string
	AvatarSeed *string
}

func NewUser(name, email, password string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, e.ErrNameRequired
	}

	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if password == "" {
		return nil, e.ErrPasswordRequired
	}

	id := uuid.NewString()
	return &User{
		ID:         id,
		Name:       name,
		Email:      email,
		Password:   password,
		AvatarSeed: id,
		CreatedAt:  now,
	}, nil
}

// NormalizeEmail приводит email к нижнему регистру и проверяет формат.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", e.ErrInvalidEmail
	}
	return email, nil
}

func (u *User) PasswordMatches(password string) bool {
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		CreatedAt:  u.CreatedAt,
		AvatarSeed: u.AvatarSeed,
	}
}

// Apply применяет частичное обновление. Email нормализуется, уникальность проверяет вызывающий.
// При ошибке пользователь не меняется.
func (u *User) Apply(upd ProfileUpdate) error {
	next := *u

	if upd.Name != nil {
		next.Name = strings.TrimSpace(*upd.Name)
		if next.Name == "" {
			return e.ErrNameRequired
		}
	}

	if upd.Email != nil {
		email, err := NormalizeEmail(*upd.Email)
		if err != nil {
			return err
		}
		next.Email = email
	}

	if upd.AvatarSeed != nil {
		next.AvatarSeed = *upd.AvatarSeed
	}

	*u = next
	return nil
}
