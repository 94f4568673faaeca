package domain

import "time"

// WishlistEntry связывает пользователя и товар. Пара (UserID, ProductID) уникальна.
type WishlistEntry struct {
	UserID    string
	ProductID string
	AddedAt   time.Time
}
